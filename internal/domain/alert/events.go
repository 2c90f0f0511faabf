package alert

import (
	"github.com/google/uuid"
	"github.com/vendora/backend/internal/domain/shared"
)

const (
	EventTypeAlertCreated    = "alert.created"
	EventTypeAlertClosed     = "alert.closed"
	EventTypeRestockRequired = "alert.restock_required"
)

// AlertCreatedEvent is published when a new active alert is stored.
// Notification delivery is driven off this event.
type AlertCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID    uuid.UUID `json:"product_id"`
	AlertType    Type      `json:"alert_type"`
	Priority     Priority  `json:"priority"`
	CurrentStock int       `json:"current_stock"`
	Threshold    int       `json:"threshold"`
}

// NewAlertCreatedEvent creates an alert created event
func NewAlertCreatedEvent(a *Alert) *AlertCreatedEvent {
	return &AlertCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAlertCreated, AggregateTypeAlert, a.ID, a.SellerID),
		ProductID:       a.ProductID,
		AlertType:       a.Type,
		Priority:        a.Priority,
		CurrentStock:    a.CurrentStock,
		Threshold:       a.Threshold,
	}
}

// AlertClosedEvent is published when an alert reaches a terminal state
type AlertClosedEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID `json:"product_id"`
	FinalStatus Status    `json:"final_status"`
	ActionTaken string    `json:"action_taken,omitempty"`
}

// NewAlertClosedEvent creates an alert closed event
func NewAlertClosedEvent(a *Alert) *AlertClosedEvent {
	return &AlertClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAlertClosed, AggregateTypeAlert, a.ID, a.SellerID),
		ProductID:       a.ProductID,
		FinalStatus:     a.Status,
		ActionTaken:     a.ActionTaken,
	}
}

// RestockRequiredEvent is published when auto-restock dispatch succeeds,
// so downstream bookkeeping can react.
type RestockRequiredEvent struct {
	shared.BaseDomainEvent
	ProductID  uuid.UUID  `json:"product_id"`
	SupplierID uuid.UUID  `json:"supplier_id"`
	Quantity   int        `json:"quantity"`
	OrderID    *uuid.UUID `json:"order_id,omitempty"`
}

// NewRestockRequiredEvent creates a restock required event
func NewRestockRequiredEvent(a *Alert, supplierID uuid.UUID, quantity int) *RestockRequiredEvent {
	return &RestockRequiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRestockRequired, AggregateTypeAlert, a.ID, a.SellerID),
		ProductID:       a.ProductID,
		SupplierID:      supplierID,
		Quantity:        quantity,
		OrderID:         a.AutoRestockOrderID,
	}
}
