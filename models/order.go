package models

import (
	"time"
)

// Order statuses
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
)

// Order sources
const (
	OrderSourceDashboard = "dashboard"
	OrderSourceBot       = "whatsapp_bot"
)

// AllowedOrderStatuses lists every status an order may hold
var AllowedOrderStatuses = []string{
	OrderStatusPending,
	OrderStatusCompleted,
	OrderStatusCancelled,
	OrderStatusShipped,
	OrderStatusDelivered,
}

// IsValidOrderStatus reports whether s is one of the known order statuses
func IsValidOrderStatus(s string) bool {
	for _, allowed := range AllowedOrderStatuses {
		if s == allowed {
			return true
		}
	}
	return false
}

// Order represents a sales transaction. It is created atomically with
// its items; the order number is unique across all orders.
type Order struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	OrderNumber   string      `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	UserID        *uint       `gorm:"index" json:"user_id"` // processing user, nullable
	User          *User       `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"user,omitempty"`
	TotalAmount   float64     `gorm:"not null" json:"total_amount"`
	PaymentMethod *string     `gorm:"size:50" json:"payment_method"` // Cash, QRIS, Transfer
	Status        string      `gorm:"not null;default:'pending';size:20" json:"status"`
	Source        string      `gorm:"not null;default:'dashboard';size:20" json:"source"` // "dashboard" or "whatsapp_bot"
	Notes         *string     `json:"notes"`
	Items         []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt     time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a single line of an Order. price_at_transaction snapshots
// the selling price at order time and is never recomputed from the
// current catalog price.
type OrderItem struct {
	ID                 uint    `gorm:"primaryKey" json:"id"`
	OrderID            uint    `gorm:"not null;index" json:"order_id"`
	ProductID          uint    `gorm:"not null;index" json:"product_id"`
	Product            Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"product"`
	Quantity           int     `gorm:"not null;check:quantity > 0" json:"quantity"`
	PriceAtTransaction float64 `gorm:"not null" json:"price_at_transaction"`
	Subtotal           float64 `gorm:"not null" json:"subtotal"` // quantity * price_at_transaction
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}
