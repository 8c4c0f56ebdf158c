package domain

import "time"

// Early-funnel defaults for deals created from inbound email.
const (
	StageNew               = "new"
	LeadSourceInboundEmail = "inbound_email"
	DefaultProbability     = 20
)

// Deal is a sales opportunity. The pipeline creates at most one per contact;
// later messages from the same contact reuse the existing deal.
type Deal struct {
	ID             string     `json:"id" gorm:"primaryKey"`
	ContactID      string     `json:"contact_id" gorm:"index;not null"`
	AccountID      string     `json:"account_id" gorm:"index"`
	Title          string     `json:"title"`
	Stage          string     `json:"stage"`
	Probability    int        `json:"probability"`
	LeadSource     string     `json:"lead_source"`
	Notes          string     `json:"notes,omitempty"`
	NextFollowUpAt *time.Time `json:"next_follow_up_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
