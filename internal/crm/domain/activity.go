package domain

import "time"

const (
	ActivityTypeEmailReceived = "email_received"
	ActivityOutcomeCompleted  = "completed"
)

// Activity is one audit-log entry on a deal ("this message arrived").
type Activity struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	DealID      string    `json:"deal_id" gorm:"index;not null"`
	ContactID   string    `json:"contact_id" gorm:"index"`
	Type        string    `json:"type"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body,omitempty"`
	Outcome     string    `json:"outcome"`
	CompletedAt time.Time `json:"completed_at"`
	CreatedAt   time.Time `json:"created_at"`
}
