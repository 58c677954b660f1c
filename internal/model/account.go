package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account represents a registered customer or admin.
type Account struct {
	ID                  uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Email               string     `json:"email" gorm:"uniqueIndex;size:255;not null"` // Stored normalized
	FullName            string     `json:"full_name" gorm:"size:255;not null"`
	Phone               string     `json:"phone,omitempty" gorm:"size:32"`
	Address             string     `json:"address,omitempty" gorm:"size:512"`
	PasswordHash        string     `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	IsAdmin             bool       `json:"is_admin" gorm:"default:false;index"`
	FailedLoginAttempts int        `json:"-" gorm:"not null;default:0"`
	LockUntil           *time.Time `json:"-"`
	LastLogin           *time.Time `json:"last_login,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// IsLocked reports whether a lockout is in force at now.
func (a *Account) IsLocked(now time.Time) bool {
	return a.LockUntil != nil && a.LockUntil.After(now)
}
