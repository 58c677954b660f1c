package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SizeVariant is a named size with its own price, e.g. {"Large 14\"", 12.95}.
type SizeVariant struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Product is a menu item. When Sizes is non-empty, a size-qualified order line
// must name one of them exactly.
type Product struct {
	ID          uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	Name        string          `json:"name" gorm:"size:100;not null"`
	Description string          `json:"description,omitempty" gorm:"size:500"`
	CategoryID  uuid.UUID       `json:"category_id" gorm:"type:char(36);not null;index"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	ImageURL    string          `json:"image_url,omitempty" gorm:"size:500"`
	Ingredients []string        `json:"ingredients" gorm:"serializer:json;type:json"`
	Sizes       []SizeVariant   `json:"sizes" gorm:"serializer:json;type:json"`
	IsAvailable bool            `json:"is_available" gorm:"not null;index"`
	IsFeatured  bool            `json:"is_featured" gorm:"not null;default:false;index"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// FindSize returns the variant whose name matches exactly.
func (p *Product) FindSize(name string) (SizeVariant, bool) {
	for _, size := range p.Sizes {
		if size.Name == name {
			return size, true
		}
	}
	return SizeVariant{}, false
}
