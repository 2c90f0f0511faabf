package monitoring

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vendora/backend/internal/domain/alert"
	"github.com/vendora/backend/internal/domain/shared"
)

// AlertCreatedHandler reacts to freshly created alerts by pushing them
// through the notification gate.
type AlertCreatedHandler struct {
	logger    *zap.Logger
	alertRepo alert.Repository
	gate      *NotificationGate
}

// NewAlertCreatedHandler creates a new handler for alert created events
func NewAlertCreatedHandler(alertRepo alert.Repository, gate *NotificationGate, logger *zap.Logger) *AlertCreatedHandler {
	return &AlertCreatedHandler{
		logger:    logger,
		alertRepo: alertRepo,
		gate:      gate,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *AlertCreatedHandler) EventTypes() []string {
	return []string{alert.EventTypeAlertCreated}
}

// Handle processes an AlertCreatedEvent
func (h *AlertCreatedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	createdEvent, ok := event.(*alert.AlertCreatedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", alert.EventTypeAlertCreated),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			alert.EventTypeAlertCreated, event.EventType())
	}

	// Reload instead of trusting the event payload: the stored row
	// carries the sent flag and version the gate needs.
	a, err := h.alertRepo.FindByID(ctx, createdEvent.AggregateID())
	if err != nil {
		return fmt.Errorf("load alert %s: %w", createdEvent.AggregateID(), err)
	}

	return h.gate.NotifyAlert(ctx, a)
}
