package models

import "time"

// Address is a delivery address owned by a single user.
type Address struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	UserID     string    `json:"user_id" gorm:"type:varchar(36);index"`
	Street     string    `json:"street" validate:"required,max=255"`
	City       string    `json:"city" validate:"required,max=100"`
	PostalCode string    `json:"postal_code" validate:"required,max=20"`
	Country    string    `json:"country" validate:"required,max=100"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
