package repositories

import (
	"sync"
	"time"

	"belanja/internal/apperrors"
	"belanja/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
// Its Cancel honours the same conditional-update semantics as the GORM
// implementation: the status check and the write happen under one lock.
type MockOrderRepository struct {
	orders map[string]models.Order
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// Create stores the order with its items.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order
	return nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, apperrors.NotFound("order not found")
	}
	return &order, nil
}

// GetByUserID returns all orders owned by a user, oldest first.
func (r *MockOrderRepository) GetByUserID(userID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0)
	for _, order := range r.orders {
		if order.UserID == userID {
			orderList = append(orderList, order)
		}
	}
	for i := 0; i < len(orderList); i++ {
		for j := i + 1; j < len(orderList); j++ {
			if orderList[j].CreatedAt.Before(orderList[i].CreatedAt) {
				orderList[i], orderList[j] = orderList[j], orderList[i]
			}
		}
	}
	return orderList, nil
}

// UpdateStatus updates the status of an order unconditionally.
func (r *MockOrderRepository) UpdateStatus(id string, status models.OrderStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return 0, nil
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return 1, nil
}

// Cancel performs the conditional cancellation update atomically.
func (r *MockOrderRepository) Cancel(id string, eligible []models.OrderStatus, by models.CancelledBy, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return 0, nil
	}

	match := false
	for _, status := range eligible {
		if order.Status == status {
			match = true
			break
		}
	}
	if !match {
		return 0, nil
	}

	order.Status = models.OrderStatusCancelled
	order.CancelledAt = &at
	order.CancelledBy = &by
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return 1, nil
}
