package domain

import "time"

// MailboxAccount is one OAuth-connected inbox the pipeline reads.
// Disconnecting clears IsActive; reconnecting the same address reuses the row.
type MailboxAccount struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null"`
	Name         string     `json:"name"`
	AccessToken  string     `json:"-"`
	RefreshToken string     `json:"-"`
	TokenExpiry  time.Time  `json:"token_expiry"`
	IsActive     bool       `json:"is_active" gorm:"index"`
	LabelFilter  string     `json:"label_filter,omitempty"`
	LastSyncAt   *time.Time `json:"last_sync_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
