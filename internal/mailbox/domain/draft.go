package domain

import "time"

// Draft lifecycle states.
const (
	DraftStatusPending = "pending"
	DraftStatusSent    = "sent"
	DraftStatusFailed  = "failed"
)

// DraftRecord is an AI-generated proposed reply awaiting human review.
// Original-message fields are copied through so the review UI does not have
// to refetch the message from the provider.
type DraftRecord struct {
	ID                 string     `json:"id" gorm:"primaryKey"`
	ProcessedMessageID string     `json:"processed_message_id" gorm:"index;not null"`
	AccountID          string     `json:"account_id" gorm:"index;not null"`
	ThreadID           string     `json:"thread_id,omitempty"`
	ContactID          string     `json:"contact_id"`
	DealID             string     `json:"deal_id"`
	FromName           string     `json:"from_name"`
	FromEmail          string     `json:"from_email"`
	OriginalSubject    string     `json:"original_subject"`
	OriginalBody       string     `json:"original_body"`
	ReceivedAt         time.Time  `json:"received_at"`
	DraftSubject       string     `json:"draft_subject"`
	DraftBody          string     `json:"draft_body"`
	Tone               string     `json:"tone"`
	Status             string     `json:"status" gorm:"index;default:pending"`
	ErrorMessage       string     `json:"error_message,omitempty"`
	SentAt             *time.Time `json:"sent_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}
