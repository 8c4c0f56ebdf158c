package repository

import "salescrm-backend/internal/mailbox/domain"

// ProcessedMessageRepository is the idempotency ledger. Rows are append-only.
type ProcessedMessageRepository interface {
	// True iff a ledger row exists for this provider message ID. Gmail
	// message IDs are globally unique, so no account scoping is needed.
	IsProcessed(messageID string) (bool, error)
	Create(record *domain.ProcessedMessage) error
	FindByMessageID(messageID string) (*domain.ProcessedMessage, error)
	ListByAccount(accountID string, limit int) ([]*domain.ProcessedMessage, error)
}
