package monitoring

import (
	"context"

	"github.com/google/uuid"
	"github.com/vendora/backend/internal/domain/alert"
	"github.com/vendora/backend/internal/domain/forecast"
	"github.com/vendora/backend/internal/domain/partner"
)

// Notifier delivers alert notifications to the seller.
// Implementations can support different channels (email, sms, push,
// in_app); the returned channel records which one was used.
type Notifier interface {
	SendAlertNotification(ctx context.Context, a *alert.Alert) (alert.Channel, error)
	SendPredictionWarning(ctx context.Context, sellerID, productID uuid.UUID, p forecast.Prediction) error
}

// RestockRequest is a purchase request dispatched to a supplier
type RestockRequest struct {
	SellerID    uuid.UUID
	ProductID   uuid.UUID
	ProductSKU  string
	ProductName string
	Quantity    int
	Supplier    *partner.Supplier
}

// RestockTransport dispatches a restock request to a supplier over one
// delivery method. A non-nil order reference identifies the request on
// the supplier's side when the method provides one.
type RestockTransport interface {
	Dispatch(ctx context.Context, req RestockRequest) (orderRef *uuid.UUID, err error)
}

// SweepMetrics records monitoring telemetry. A no-op implementation is
// used when telemetry is disabled.
type SweepMetrics interface {
	RecordAlertCreated(ctx context.Context, alertType alert.Type, priority alert.Priority)
	RecordSweep(ctx context.Context, productsChecked, alertsCreated int)
	RecordRestockDispatch(ctx context.Context, method partner.RestockMethod, success bool)
}

// NopSweepMetrics is a SweepMetrics that does nothing
type NopSweepMetrics struct{}

func (NopSweepMetrics) RecordAlertCreated(context.Context, alert.Type, alert.Priority) {}
func (NopSweepMetrics) RecordSweep(context.Context, int, int)                          {}
func (NopSweepMetrics) RecordRestockDispatch(context.Context, partner.RestockMethod, bool) {
}
