package alert

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vendora/backend/internal/domain/shared"
)

// Type classifies the stock condition an alert reports
type Type string

const (
	TypeLowStock      Type = "low_stock"
	TypeOutOfStock    Type = "out_of_stock"
	TypeOverstock     Type = "overstock"
	TypeRestockNeeded Type = "restock_needed"
	TypeExpiringSoon  Type = "expiring_soon"
)

// Priority indicates how urgent an alert is
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Status is the lifecycle state of an alert
type Status string

const (
	StatusActive       Status = "active"
	StatusAcknowledged Status = "acknowledged"
	StatusResolved     Status = "resolved"
	StatusDismissed    Status = "dismissed"
)

// Channel is an outbound notification channel.
// Only email has a concrete transport; sms, push and in_app are
// declared extension points.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelPush  Channel = "push"
	ChannelInApp Channel = "in_app"
)

// Alert is the aggregate root for a detected stock condition on one
// seller product. Alerts are never hard-deleted: resolved and dismissed
// records are retained for audit, and a recurrence of the underlying
// condition creates a new record because dedup only matches active ones.
type Alert struct {
	shared.SellerAggregateRoot
	ProductID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_alert_seller_product"`
	WarehouseID *uuid.UUID `gorm:"type:uuid"`

	Type     Type     `gorm:"type:varchar(20);not null"`
	Priority Priority `gorm:"type:varchar(10);not null"`
	Status   Status   `gorm:"type:varchar(15);not null;default:'active';index"`

	CurrentStock       int  `gorm:"not null"`
	Threshold          int  `gorm:"not null"`
	RecommendedRestock *int `gorm:""`

	AcknowledgedAt *time.Time `gorm:""`
	AcknowledgedBy *uuid.UUID `gorm:"type:uuid"`
	ResolvedAt     *time.Time `gorm:""`
	ActionTaken    string     `gorm:"type:text"`

	NotificationSent     bool       `gorm:"not null;default:false"`
	NotificationSentAt   *time.Time `gorm:""`
	NotificationChannels Channels   `gorm:"type:text"`

	AutoRestockEnabled   bool       `gorm:"not null;default:false"`
	AutoRestockTriggered bool       `gorm:"not null;default:false"`
	AutoRestockOrderID   *uuid.UUID `gorm:"type:uuid"`

	SalesVelocity         *decimal.Decimal `gorm:"type:decimal(12,2)"`
	PredictedStockOutDays *int             `gorm:""`
	Confidence            *int             `gorm:""`
	LastCalculated        *time.Time       `gorm:""`
}

// TableName returns the table name for GORM
func (Alert) TableName() string {
	return "stock_alerts"
}

// AggregateTypeAlert identifies the aggregate in domain events
const AggregateTypeAlert = "Alert"

// New creates an active alert from a classified stock condition
func New(sellerID, productID uuid.UUID, warehouseID *uuid.UUID, proposed ProposedAlert) (*Alert, error) {
	if sellerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SELLER", "Seller ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}

	a := &Alert{
		SellerAggregateRoot: shared.NewSellerAggregateRoot(sellerID),
		ProductID:           productID,
		WarehouseID:         warehouseID,
		Type:                proposed.Type,
		Priority:            proposed.Priority,
		Status:              StatusActive,
		CurrentStock:        proposed.CurrentStock,
		Threshold:           proposed.Threshold,
		RecommendedRestock:  proposed.RecommendedRestock,
	}
	a.AddDomainEvent(NewAlertCreatedEvent(a))
	return a, nil
}

// Refresh applies a re-detection of the same condition to an existing
// active alert, updating the stock snapshot and priority in place.
func (a *Alert) Refresh(proposed ProposedAlert) error {
	if a.Status != StatusActive {
		return shared.ErrInvalidState
	}
	a.CurrentStock = proposed.CurrentStock
	a.Threshold = proposed.Threshold
	a.Priority = proposed.Priority
	a.RecommendedRestock = proposed.RecommendedRestock
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// Acknowledge marks the alert as seen by a seller user.
// Only an active alert can be acknowledged.
func (a *Alert) Acknowledge(actorID uuid.UUID) error {
	if a.Status != StatusActive {
		return shared.ErrInvalidState
	}
	now := time.Now()
	a.Status = StatusAcknowledged
	a.AcknowledgedAt = &now
	a.AcknowledgedBy = &actorID
	a.UpdatedAt = now
	a.IncrementVersion()
	return nil
}

// Resolve closes the alert with a record of what was done.
// Allowed from active or acknowledged; resolved and dismissed are terminal.
func (a *Alert) Resolve(actionTaken string) error {
	if a.Status != StatusActive && a.Status != StatusAcknowledged {
		return shared.ErrInvalidState
	}
	now := time.Now()
	a.Status = StatusResolved
	a.ResolvedAt = &now
	a.ActionTaken = actionTaken
	a.UpdatedAt = now
	a.IncrementVersion()
	a.AddDomainEvent(NewAlertClosedEvent(a))
	return nil
}

// Dismiss closes the alert without any action taken, distinguishing
// "ignored" from "solved".
func (a *Alert) Dismiss() error {
	if a.Status != StatusActive && a.Status != StatusAcknowledged {
		return shared.ErrInvalidState
	}
	a.Status = StatusDismissed
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	a.AddDomainEvent(NewAlertClosedEvent(a))
	return nil
}

// MarkNotified records that the first (and only) notification for this
// alert went out on the given channel. Subsequent calls are rejected so
// the sent flag transitions false to true exactly once.
func (a *Alert) MarkNotified(channel Channel) error {
	if a.NotificationSent {
		return shared.ErrInvalidState
	}
	now := time.Now()
	a.NotificationSent = true
	a.NotificationSentAt = &now
	a.NotificationChannels = a.NotificationChannels.Append(channel)
	a.UpdatedAt = now
	a.IncrementVersion()
	return nil
}

// MarkRestockTriggered records a successful auto-restock dispatch.
// The flag is monotonic: a second trigger attempt is rejected.
func (a *Alert) MarkRestockTriggered(orderID *uuid.UUID) error {
	if a.AutoRestockTriggered {
		return shared.ErrInvalidState
	}
	a.AutoRestockTriggered = true
	a.AutoRestockOrderID = orderID
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// AttachPrediction stores the latest on-demand forecast snapshot
func (a *Alert) AttachPrediction(velocity decimal.Decimal, stockOutDays, confidence int) {
	now := time.Now()
	a.SalesVelocity = &velocity
	a.PredictedStockOutDays = &stockOutDays
	a.Confidence = &confidence
	a.LastCalculated = &now
	a.UpdatedAt = now
	a.IncrementVersion()
}

// IsOpen reports whether the alert still awaits seller action
func (a *Alert) IsOpen() bool {
	return a.Status == StatusActive || a.Status == StatusAcknowledged
}

// RestockQuantity returns the recommended restock quantity, or the
// fallback when the classifier did not recommend one.
func (a *Alert) RestockQuantity(fallback int) int {
	if a.RecommendedRestock != nil && *a.RecommendedRestock > 0 {
		return *a.RecommendedRestock
	}
	return fallback
}
