package repository

import "salescrm-backend/internal/mailbox/domain"

// DraftRepository defines the interface for reply draft persistence
type DraftRepository interface {
	Create(draft *domain.DraftRecord) error
	FindByID(id string) (*domain.DraftRecord, error)
	ListByStatus(status string, limit int) ([]*domain.DraftRecord, error)
	Update(draft *domain.DraftRecord) error
}
