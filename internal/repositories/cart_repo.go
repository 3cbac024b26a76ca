package repositories

import "belanja/internal/models"

// CartRepository defines the interface for cart data access.
type CartRepository interface {
	GetByUserID(userID string) (*models.Cart, error)
	Create(cart *models.Cart) error
	AddItem(item *models.CartItem) error
	GetItem(itemID string) (*models.CartItem, error)
	UpdateItemQuantity(itemID string, quantity int) error
	DeleteItem(itemID string) error
	ClearItems(cartID string) error
}
