package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order. PENDING is the initial
// state, CANCELLED is terminal.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusPaid       OrderStatus = "PAID"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

var validOrderStatuses = map[OrderStatus]struct{}{
	OrderStatusPending:    {},
	OrderStatusPaid:       {},
	OrderStatusProcessing: {},
	OrderStatusShipped:    {},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// ToOrderStatus parses s into an OrderStatus, rejecting unknown values.
func ToOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if _, ok := validOrderStatuses[status]; ok {
		return status, nil
	}
	return "", errors.New("invalid order status")
}

// CancelledBy records which kind of principal cancelled an order.
type CancelledBy string

const (
	CancelledByUser  CancelledBy = "USER"
	CancelledByAdmin CancelledBy = "ADMIN"
)

// UserCancellableStatuses are the states a user may cancel their own order from.
// AdminCancellableStatuses are the states an admin may cancel any order from.
var (
	UserCancellableStatuses  = []OrderStatus{OrderStatusPending}
	AdminCancellableStatuses = []OrderStatus{OrderStatusPending, OrderStatusPaid, OrderStatusProcessing}
)

// Order represents a customer order. Total is always computed server-side
// from product prices at creation time and never updated afterwards.
type Order struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID      string          `json:"user_id" gorm:"type:varchar(36);index"`
	Total       decimal.Decimal `json:"total" gorm:"type:decimal(10,2)"`
	Status      OrderStatus     `json:"status" gorm:"type:varchar(20);default:'PENDING'"`
	CancelledAt *time.Time      `json:"cancelled_at,omitempty"`
	CancelledBy *CancelledBy    `json:"cancelled_by,omitempty" gorm:"type:varchar(10)"`
	Items       []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	User        *User           `json:"user,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// OrderItem represents a single line within an order. Price is the product
// price captured when the order was created; it must never be recomputed
// from the live product record.
type OrderItem struct {
	ID        string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string          `json:"order_id" gorm:"type:varchar(36);index"`
	ProductID string          `json:"product_id" gorm:"type:varchar(36)"`
	Quantity  int             `json:"quantity" gorm:"check:quantity > 0"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
