package domain

import "time"

// ProcessedMessage is the idempotency ledger row for one inbound message.
// Rows are append-only: created once when the coordinator decides to handle
// (or intentionally skip) a message, never updated or deleted. Existence of
// a row is the sole authority for "already handled" — even if projection or
// drafting failed afterwards.
type ProcessedMessage struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	AccountID      string    `json:"account_id" gorm:"index;not null"`
	GmailMessageID string    `json:"gmail_message_id" gorm:"uniqueIndex;not null"`
	FromEmail      string    `json:"from_email"`
	Subject        string    `json:"subject"`
	ContactID      *string   `json:"contact_id,omitempty"`
	DealID         *string   `json:"deal_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
