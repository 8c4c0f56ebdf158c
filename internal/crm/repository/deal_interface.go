package repository

import "salescrm-backend/internal/crm/domain"

// DealRepository defines the interface for deal persistence
type DealRepository interface {
	Create(deal *domain.Deal) error
	FindByID(id string) (*domain.Deal, error)
	// First deal linked to the contact, oldest first; nil if none.
	FindFirstByContact(contactID string) (*domain.Deal, error)
	List(limit, offset int) ([]*domain.Deal, error)
	Update(deal *domain.Deal) error
}
