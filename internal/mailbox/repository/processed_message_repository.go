package repository

import (
	"errors"
	"time"

	"salescrm-backend/internal/mailbox/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// processedMessageRepository implements ProcessedMessageRepository interface
type processedMessageRepository struct {
	db *gorm.DB
}

// NewProcessedMessageRepository creates a new instance of processedMessageRepository
func NewProcessedMessageRepository(db *gorm.DB) ProcessedMessageRepository {
	return &processedMessageRepository{
		db: db,
	}
}

func (r *processedMessageRepository) IsProcessed(messageID string) (bool, error) {
	var record domain.ProcessedMessage
	err := r.db.Where("gmail_message_id = ?", messageID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *processedMessageRepository) Create(record *domain.ProcessedMessage) error {
	record.ID = uuid.New().String()
	record.CreatedAt = time.Now()
	return r.db.Create(record).Error
}

func (r *processedMessageRepository) FindByMessageID(messageID string) (*domain.ProcessedMessage, error) {
	var record domain.ProcessedMessage
	err := r.db.Where("gmail_message_id = ?", messageID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *processedMessageRepository) ListByAccount(accountID string, limit int) ([]*domain.ProcessedMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	var records []*domain.ProcessedMessage
	err := r.db.Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
