package models

import "time"

// Review is a product review. A user may review a given product at most once.
type Review struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);uniqueIndex:ux_reviews_user_product"`
	ProductID string    `json:"product_id" gorm:"type:varchar(36);uniqueIndex:ux_reviews_user_product"`
	Rating    int       `json:"rating" validate:"required,min=1,max=5"`
	Content   string    `json:"content" validate:"omitempty,max=1000"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
