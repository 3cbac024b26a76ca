package repositories

import (
	"time"

	"belanja/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// Create persists the order header and all of its items in a single
	// transaction. Either every row is written or none are.
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	GetByUserID(userID string) ([]models.Order, error)
	// UpdateStatus sets the status unconditionally. Returns the number of
	// rows affected; zero means no such order.
	UpdateStatus(id string, status models.OrderStatus) (int64, error)
	// Cancel transitions the order to CANCELLED only if its current status
	// is one of eligible. The predicate is part of the UPDATE itself so that
	// concurrent status changes resolve to at most one winner; a zero row
	// count means the caller lost the race or the order never existed.
	Cancel(id string, eligible []models.OrderStatus, by models.CancelledBy, at time.Time) (int64, error)
}
