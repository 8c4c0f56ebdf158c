package repository

import (
	"errors"
	"strings"
	"time"

	"salescrm-backend/internal/crm/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// contactRepository implements ContactRepository interface
type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new instance of contactRepository
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{
		db: db,
	}
}

func (r *contactRepository) Create(contact *domain.Contact) error {
	contact.ID = uuid.New().String()
	contact.Email = strings.ToLower(contact.Email)
	contact.CreatedAt = time.Now()
	contact.UpdatedAt = time.Now()
	return r.db.Create(contact).Error
}

func (r *contactRepository) FindByEmail(email string) (*domain.Contact, error) {
	var contact domain.Contact
	err := r.db.Where("email = ?", strings.ToLower(email)).First(&contact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &contact, nil
}

func (r *contactRepository) FindByID(id string) (*domain.Contact, error) {
	var contact domain.Contact
	err := r.db.Where("id = ?", id).First(&contact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &contact, nil
}

func (r *contactRepository) List(limit, offset int) ([]*domain.Contact, error) {
	if limit <= 0 {
		limit = 50
	}
	var contacts []*domain.Contact
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&contacts).Error
	if err != nil {
		return nil, err
	}
	return contacts, nil
}
