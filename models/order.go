package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "created"   // Checkout committed, awaiting payment
	OrderStatusPaid      OrderStatus = "paid"      // Payment recorded
	OrderStatusShipped   OrderStatus = "shipped"   // Out for delivery
	OrderStatusDelivered OrderStatus = "delivered" // Customer received the books
	OrderStatusCancelled OrderStatus = "cancelled" // Terminal, stock restored
)

// Valid reports whether s is one of the enumerated statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusCreated, OrderStatusPaid, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Cancellable reports whether an order in this status may still be cancelled.
func (s OrderStatus) Cancellable() bool {
	return s == OrderStatusCreated || s == OrderStatusPaid
}

type Order struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"not null;index" json:"user_id"`
	Items     []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Total     decimal.Decimal `gorm:"type:numeric(10,2)" json:"total"`
	Status    OrderStatus     `gorm:"type:VARCHAR(20);default:'created'" json:"status"`
	OrderRef  string          `gorm:"size:64;uniqueIndex" json:"order_ref"`
	CreatedAt time.Time       `json:"created_at"`
}

// OrderItem is an immutable snapshot taken at checkout. UnitPrice is the
// book's price at purchase time and is never recomputed from the catalog.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"index" json:"order_id"`
	BookID    uint            `gorm:"not null" json:"book_id"`
	Title     string          `gorm:"size:200" json:"title"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(10,2)" json:"unit_price"`
	Quantity  int             `gorm:"not null" json:"quantity"`
}
