package repository

import (
	"errors"
	"time"

	"salescrm-backend/internal/mailbox/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// accountRepository implements AccountRepository interface
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new instance of accountRepository
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{
		db: db,
	}
}

func (r *accountRepository) Upsert(account *domain.MailboxAccount) (*domain.MailboxAccount, error) {
	existing, err := r.FindByEmail(account.Email)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	if existing != nil {
		// Reconnect: reuse the row, refresh credentials, reactivate.
		existing.AccessToken = account.AccessToken
		if account.RefreshToken != "" {
			existing.RefreshToken = account.RefreshToken
		}
		existing.TokenExpiry = account.TokenExpiry
		existing.IsActive = true
		if account.Name != "" {
			existing.Name = account.Name
		}
		existing.UpdatedAt = now
		if err := r.db.Save(existing).Error; err != nil {
			return nil, err
		}
		return existing, nil
	}

	account.ID = uuid.New().String()
	account.IsActive = true
	account.CreatedAt = now
	account.UpdatedAt = now
	if err := r.db.Create(account).Error; err != nil {
		return nil, err
	}
	return account, nil
}

func (r *accountRepository) FindByID(id string) (*domain.MailboxAccount, error) {
	var account domain.MailboxAccount
	err := r.db.Where("id = ?", id).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) FindByEmail(email string) (*domain.MailboxAccount, error) {
	var account domain.MailboxAccount
	err := r.db.Where("email = ?", email).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) Update(account *domain.MailboxAccount) error {
	account.UpdatedAt = time.Now()
	return r.db.Save(account).Error
}

func (r *accountRepository) ListActive() ([]*domain.MailboxAccount, error) {
	var accounts []*domain.MailboxAccount
	err := r.db.Where("is_active = ?", true).Order("created_at ASC").Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *accountRepository) ListAll() ([]*domain.MailboxAccount, error) {
	var accounts []*domain.MailboxAccount
	err := r.db.Order("created_at ASC").Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *accountRepository) Deactivate(id string) error {
	return r.db.Model(&domain.MailboxAccount{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_active": false, "updated_at": time.Now()}).Error
}
