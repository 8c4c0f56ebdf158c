package repository

import (
	"errors"
	"time"

	"salescrm-backend/internal/crm/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// dealRepository implements DealRepository interface
type dealRepository struct {
	db *gorm.DB
}

// NewDealRepository creates a new instance of dealRepository
func NewDealRepository(db *gorm.DB) DealRepository {
	return &dealRepository{
		db: db,
	}
}

func (r *dealRepository) Create(deal *domain.Deal) error {
	deal.ID = uuid.New().String()
	deal.CreatedAt = time.Now()
	deal.UpdatedAt = time.Now()
	return r.db.Create(deal).Error
}

func (r *dealRepository) FindByID(id string) (*domain.Deal, error) {
	var deal domain.Deal
	err := r.db.Where("id = ?", id).First(&deal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &deal, nil
}

func (r *dealRepository) FindFirstByContact(contactID string) (*domain.Deal, error) {
	var deal domain.Deal
	err := r.db.Where("contact_id = ?", contactID).Order("created_at ASC").First(&deal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &deal, nil
}

func (r *dealRepository) List(limit, offset int) ([]*domain.Deal, error) {
	if limit <= 0 {
		limit = 50
	}
	var deals []*domain.Deal
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&deals).Error
	if err != nil {
		return nil, err
	}
	return deals, nil
}

func (r *dealRepository) Update(deal *domain.Deal) error {
	deal.UpdatedAt = time.Now()
	return r.db.Save(deal).Error
}
