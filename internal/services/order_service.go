package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"belanja/internal/apperrors"
	"belanja/internal/models"
	"belanja/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderEventPublisher publishes order lifecycle events to the message broker.
type OrderEventPublisher interface {
	PublishOrderEvent(routingKey string, body []byte) error
}

// OrderItemInput is a single (product, quantity) pair supplied by the client
// at order-creation time. Prices are never accepted from the client.
type OrderItemInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required"`
}

// OrderService handles business logic related to orders: pricing, creation
// and the status state machine.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	publisher   OrderEventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, publisher OrderEventPublisher) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		publisher:   publisher,
	}
}

// CreateOrder validates and prices the requested items, then persists the
// order and its items atomically. All validation happens before the
// transaction opens; nothing is written for an invalid request.
func (s *OrderService) CreateOrder(userID string, items []OrderItemInput) (*models.Order, error) {
	total, pricedItems, err := s.priceItems(items)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:     uuid.New().String(),
		UserID: userID,
		Total:  total,
		Status: models.OrderStatusPending,
		Items:  pricedItems,
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.publishOrderEvent("order.created", order)

	return order, nil
}

// priceItems validates the line items and computes the order total from
// authoritative product prices. Item prices are snapshotted here; later
// product price changes must not affect the order.
func (s *OrderService) priceItems(items []OrderItemInput) (decimal.Decimal, []models.OrderItem, error) {
	if len(items) == 0 {
		return decimal.Zero, nil, apperrors.InvalidInput("items required")
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.productRepo.GetByIDs(ids)
	if err != nil {
		return decimal.Zero, nil, fmt.Errorf("failed to look up products: %w", err)
	}

	total := decimal.Zero
	pricedItems := make([]models.OrderItem, 0, len(items))

	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			return decimal.Zero, nil, apperrors.NotFound(fmt.Sprintf("product %s not found", item.ProductID))
		}

		if item.Quantity <= 0 {
			return decimal.Zero, nil, apperrors.InvalidInput("quantity must be > 0")
		}

		itemTotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(itemTotal)

		pricedItems = append(pricedItems, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     product.Price,
		})
	}

	return total, pricedItems, nil
}

// GetMyOrders retrieves all orders owned by the given user.
func (s *OrderService) GetMyOrders(userID string) ([]models.Order, error) {
	return s.orderRepo.GetByUserID(userID)
}

// GetOrderByID retrieves a single order. Non-admin callers are ownership
// scoped: an order owned by someone else looks exactly like a missing one.
func (s *OrderService) GetOrderByID(id, principalID string, role models.Role) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if role != models.RoleAdmin && order.UserID != principalID {
		return nil, apperrors.NotFound("order not found")
	}

	return order, nil
}

// UpdateOrderStatus sets an order's status to any valid value. This is the
// permissive admin override path; it performs no transition validation.
func (s *OrderService) UpdateOrderStatus(id string, status string) (*models.Order, error) {
	parsed, err := models.ToOrderStatus(status)
	if err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid order status: %s", status))
	}

	rows, err := s.orderRepo.UpdateStatus(id, parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if rows == 0 {
		return nil, apperrors.NotFound("order not found")
	}

	return s.orderRepo.GetByID(id)
}

// CancelOrder cancels an order on behalf of its owner. Only PENDING orders
// are eligible. The write itself re-checks the status so that concurrent
// cancellations resolve to at most one winner.
func (s *OrderService) CancelOrder(id, userID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if order.UserID != userID {
		return nil, apperrors.Forbidden("you are not allowed to cancel this order")
	}

	return s.cancel(order, models.UserCancellableStatuses, models.CancelledByUser)
}

// AdminCancelOrder cancels any order from PENDING, PAID or PROCESSING.
func (s *OrderService) AdminCancelOrder(id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	return s.cancel(order, models.AdminCancellableStatuses, models.CancelledByAdmin)
}

func (s *OrderService) cancel(order *models.Order, eligible []models.OrderStatus, by models.CancelledBy) (*models.Order, error) {
	if order.Status == models.OrderStatusCancelled {
		return nil, apperrors.Conflict("order already cancelled")
	}

	if !statusIn(order.Status, eligible) {
		return nil, apperrors.Conflict("order cannot be cancelled at this stage")
	}

	rows, err := s.orderRepo.Cancel(order.ID, eligible, by, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to cancel order %s: %w", order.ID, err)
	}
	if rows == 0 {
		// The status changed between our read and the conditional write;
		// whoever changed it won the race. Re-read to report what actually
		// happened: the winner may have cancelled the order, or moved it to
		// a stage the caller cannot cancel from.
		current, err := s.orderRepo.GetByID(order.ID)
		if err != nil {
			return nil, err
		}
		if current.Status == models.OrderStatusCancelled {
			return nil, apperrors.Conflict("order already cancelled")
		}
		return nil, apperrors.Conflict("order cannot be cancelled at this stage")
	}

	cancelled, err := s.orderRepo.GetByID(order.ID)
	if err != nil {
		return nil, err
	}

	s.publishOrderEvent("order.cancelled", cancelled)

	return cancelled, nil
}

func statusIn(status models.OrderStatus, statuses []models.OrderStatus) bool {
	for _, s := range statuses {
		if status == s {
			return true
		}
	}
	return false
}

// publishOrderEvent publishes an order lifecycle event. Publishing is best
// effort: a broker failure is logged but never fails the request.
func (s *OrderService) publishOrderEvent(routingKey string, order *models.Order) {
	if s.publisher == nil {
		return
	}

	body, err := json.Marshal(map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"status":   order.Status,
		"total":    order.Total,
	})
	if err != nil {
		log.Printf("Failed to marshal %s event for order %s: %v", routingKey, order.ID, err)
		return
	}

	if err := s.publisher.PublishOrderEvent(routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event for order %s: %v", routingKey, order.ID, err)
	}
}
