package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vendora/backend/internal/domain/shared"
)

// OrderStatus represents the lifecycle state of a sales order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order represents a buyer's sales order against one seller.
// Pending and cancelled orders are excluded from velocity calculations.
type Order struct {
	shared.SellerAggregateRoot
	OrderNumber string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	BuyerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status      OrderStatus     `gorm:"type:varchar(20);not null;default:'pending'"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PlacedAt    time.Time       `gorm:"not null;index"`
	Lines       []OrderLine     `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "sales_orders"
}

// OrderLine is one product position on a sales order
type OrderLine struct {
	shared.BaseEntity
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (OrderLine) TableName() string {
	return "sales_order_lines"
}

// CountsTowardSales reports whether the order contributes to sales
// velocity. Only committed orders count: pending orders are not sales
// yet and cancelled orders never were.
func (o *Order) CountsTowardSales() bool {
	switch o.Status {
	case OrderStatusPaid, OrderStatusShipped, OrderStatusCompleted:
		return true
	default:
		return false
	}
}

// CountableStatuses lists the order statuses that contribute to sales
// velocity, for repository-level filtering.
func CountableStatuses() []OrderStatus {
	return []OrderStatus{OrderStatusPaid, OrderStatusShipped, OrderStatusCompleted}
}
