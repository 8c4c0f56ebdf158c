package repository

import (
	"time"

	"salescrm-backend/internal/crm/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// activityRepository implements ActivityRepository interface
type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new instance of activityRepository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{
		db: db,
	}
}

func (r *activityRepository) Create(activity *domain.Activity) error {
	activity.ID = uuid.New().String()
	activity.CreatedAt = time.Now()
	return r.db.Create(activity).Error
}

func (r *activityRepository) ListByDeal(dealID string, limit int) ([]*domain.Activity, error) {
	if limit <= 0 {
		limit = 50
	}
	var activities []*domain.Activity
	err := r.db.Where("deal_id = ?", dealID).
		Order("completed_at DESC").
		Limit(limit).
		Find(&activities).Error
	if err != nil {
		return nil, err
	}
	return activities, nil
}
