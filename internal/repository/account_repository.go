package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pizzeria/internal/model"
)

// LoginState is the per-account lockout bookkeeping written after every login attempt.
type LoginState struct {
	FailedLoginAttempts int
	LockUntil           *time.Time
	LastLogin           *time.Time
}

// AccountRepository defines account persistence operations.
type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	Update(ctx context.Context, account *model.Account) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
	UpdateLoginState(ctx context.Context, id uuid.UUID, state LoginState) error
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository.
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

// Create creates a new account.
func (r *accountRepository) Create(ctx context.Context, account *model.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

// Update replaces an existing account.
func (r *accountRepository) Update(ctx context.Context, account *model.Account) error {
	return r.db.WithContext(ctx).Save(account).Error
}

// FindByID finds an account by ID.
func (r *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	var account model.Account
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// FindByEmail finds an account by email, case-insensitively.
func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	var account model.Account
	normalized := strings.ToLower(strings.TrimSpace(email))
	if err := r.db.WithContext(ctx).Where("LOWER(email) = ?", normalized).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// UpdateLoginState writes only the lockout fields, leaving the rest of the row untouched.
func (r *accountRepository) UpdateLoginState(ctx context.Context, id uuid.UUID, state LoginState) error {
	updates := map[string]interface{}{
		"failed_login_attempts": state.FailedLoginAttempts,
		"lock_until":            state.LockUntil,
	}
	if state.LastLogin != nil {
		updates["last_login"] = state.LastLogin
	}
	result := r.db.WithContext(ctx).Model(&model.Account{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
