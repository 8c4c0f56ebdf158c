package repository

import (
	"errors"
	"time"

	"salescrm-backend/internal/mailbox/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// draftRepository implements DraftRepository interface
type draftRepository struct {
	db *gorm.DB
}

// NewDraftRepository creates a new instance of draftRepository
func NewDraftRepository(db *gorm.DB) DraftRepository {
	return &draftRepository{
		db: db,
	}
}

func (r *draftRepository) Create(draft *domain.DraftRecord) error {
	draft.ID = uuid.New().String()
	if draft.Status == "" {
		draft.Status = domain.DraftStatusPending
	}
	draft.CreatedAt = time.Now()
	draft.UpdatedAt = time.Now()
	return r.db.Create(draft).Error
}

func (r *draftRepository) FindByID(id string) (*domain.DraftRecord, error) {
	var draft domain.DraftRecord
	err := r.db.Where("id = ?", id).First(&draft).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &draft, nil
}

func (r *draftRepository) ListByStatus(status string, limit int) ([]*domain.DraftRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var drafts []*domain.DraftRecord
	query := r.db.Order("created_at DESC").Limit(limit)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&drafts).Error; err != nil {
		return nil, err
	}
	return drafts, nil
}

func (r *draftRepository) Update(draft *domain.DraftRecord) error {
	draft.UpdatedAt = time.Now()
	return r.db.Save(draft).Error
}
