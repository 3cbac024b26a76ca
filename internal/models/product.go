package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the store. Price is the authoritative
// source of truth for order pricing at order-creation time.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string          `json:"name" validate:"required,min=3,max=255"`
	Description string          `json:"description" validate:"omitempty,max=500"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"`
	Stock       int             `json:"stock" validate:"gte=0"`
	CategoryID  *string         `json:"category_id,omitempty" gorm:"type:varchar(36)"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
