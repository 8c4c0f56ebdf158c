package repository

import "salescrm-backend/internal/crm/domain"

// ContactRepository defines the interface for contact persistence
type ContactRepository interface {
	Create(contact *domain.Contact) error
	// Case-insensitive lookup by email address.
	FindByEmail(email string) (*domain.Contact, error)
	FindByID(id string) (*domain.Contact, error)
	List(limit, offset int) ([]*domain.Contact, error)
}
