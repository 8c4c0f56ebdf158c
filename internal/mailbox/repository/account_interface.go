package repository

import "salescrm-backend/internal/mailbox/domain"

// AccountRepository defines the interface for mailbox account persistence
type AccountRepository interface {
	// Insert a new account or, if the email already exists, overwrite its
	// tokens and reactivate it. Guarantees one row per email address.
	Upsert(account *domain.MailboxAccount) (*domain.MailboxAccount, error)
	FindByID(id string) (*domain.MailboxAccount, error)
	FindByEmail(email string) (*domain.MailboxAccount, error)
	Update(account *domain.MailboxAccount) error
	// Active accounts ordered by creation time (oldest first) for
	// deterministic pass ordering.
	ListActive() ([]*domain.MailboxAccount, error)
	ListAll() ([]*domain.MailboxAccount, error)
	// Soft delete: clears the active flag, keeps history.
	Deactivate(id string) error
}
