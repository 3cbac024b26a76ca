package repositories

import (
	"errors"
	"fmt"
	"time"

	"belanja/internal/apperrors"
	"belanja/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create persists the order header and every item inside one transaction.
// If any item insert fails the header is rolled back as well.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}

	items := order.Items
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Insert the header on its own; items are written explicitly below
		// so each row goes through the same code path.
		order.Items = nil
		if err := tx.Create(order).Error; err != nil {
			order.Items = items
			return fmt.Errorf("failed to create order: %w", err)
		}

		for i := range items {
			if items[i].ID == "" {
				items[i].ID = uuid.New().String()
			}
			items[i].OrderID = order.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				order.Items = items
				return fmt.Errorf("failed to create order item for product %s: %w", items[i].ProductID, err)
			}
		}

		order.Items = items
		return nil
	})
}

// GetByID retrieves a single order with its items and owning user.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").Preload("User").First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order not found")
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// GetByUserID retrieves all orders owned by a user, oldest first.
func (r *GORMOrderRepository) GetByUserID(userID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get orders for user %s: %w", userID, err)
	}
	return orders, nil
}

// UpdateStatus sets the order status unconditionally.
func (r *GORMOrderRepository) UpdateStatus(id string, status models.OrderStatus) (int64, error) {
	res := r.db.Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to update status for order %s: %w", id, res.Error)
	}
	return res.RowsAffected, nil
}

// Cancel performs the conditional cancellation update. The status predicate
// is part of the UPDATE so a concurrent transition loses the race with a
// zero row count instead of silently overwriting the newer state.
func (r *GORMOrderRepository) Cancel(id string, eligible []models.OrderStatus, by models.CancelledBy, at time.Time) (int64, error) {
	res := r.db.Model(&models.Order{}).
		Where("id = ? AND status IN ?", id, eligible).
		Updates(map[string]interface{}{
			"status":       models.OrderStatusCancelled,
			"cancelled_at": at,
			"cancelled_by": by,
		})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to cancel order %s: %w", id, res.Error)
	}
	return res.RowsAffected, nil
}
