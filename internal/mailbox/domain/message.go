package domain

import "time"

// InboundMessage is the normalized view of one provider message, as returned
// by the mailbox client. FromEmail is lower-cased.
type InboundMessage struct {
	ID         string    `json:"id"`
	ThreadID   string    `json:"thread_id"`
	FromName   string    `json:"from_name"`
	FromEmail  string    `json:"from_email"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	ReceivedAt time.Time `json:"received_at"`
}

// ListOptions controls one candidate-message listing.
type ListOptions struct {
	MaxResults    int64
	OnlyUnread    bool
	NewerThanDays int
}
