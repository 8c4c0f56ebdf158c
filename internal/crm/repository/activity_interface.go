package repository

import "salescrm-backend/internal/crm/domain"

// ActivityRepository defines the interface for activity persistence
type ActivityRepository interface {
	Create(activity *domain.Activity) error
	ListByDeal(dealID string, limit int) ([]*domain.Activity, error)
}
