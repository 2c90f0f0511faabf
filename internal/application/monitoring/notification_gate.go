package monitoring

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/vendora/backend/internal/domain/alert"
	"github.com/vendora/backend/internal/domain/shared"
)

// NotificationGate delivers at most one notification per alert. Two
// guards stack: the persisted sent flag on the alert, and a reservation
// in the shared store that arbitrates between concurrent processes
// racing on the same alert before the flag is written back.
type NotificationGate struct {
	alertRepo      alert.Repository
	notifier       Notifier
	reservations   shared.ReservationStore
	reservationTTL time.Duration
	logger         *zap.Logger
}

// NewNotificationGate creates a new NotificationGate
func NewNotificationGate(
	alertRepo alert.Repository,
	notifier Notifier,
	reservations shared.ReservationStore,
	reservationTTL time.Duration,
	logger *zap.Logger,
) *NotificationGate {
	return &NotificationGate{
		alertRepo:      alertRepo,
		notifier:       notifier,
		reservations:   reservations,
		reservationTTL: reservationTTL,
		logger:         logger,
	}
}

// NotifyAlert sends the alert's one notification if it has not gone out
// yet. Losing the reservation race or finding the flag already set are
// both quiet no-ops; only a failed delivery is reported back so the
// caller can retry, since the flag stays unset until delivery succeeds.
func (g *NotificationGate) NotifyAlert(ctx context.Context, a *alert.Alert) error {
	if a.NotificationSent {
		return nil
	}

	won, err := g.reservations.Reserve(ctx, a.ID.String(), g.reservationTTL)
	if err != nil {
		return err
	}
	if !won {
		return nil
	}

	channel, err := g.notifier.SendAlertNotification(ctx, a)
	if err != nil {
		// Give the reservation back so the next sweep can retry without
		// waiting out the TTL.
		if rerr := g.reservations.Release(ctx, a.ID.String()); rerr != nil {
			g.logger.Warn("Failed to release notification reservation",
				zap.String("alert_id", a.ID.String()),
				zap.Error(rerr))
		}
		return err
	}

	if err := a.MarkNotified(channel); err != nil {
		return err
	}
	if err := g.alertRepo.Update(ctx, a); err != nil {
		g.logger.Error("Notification sent but flag update failed",
			zap.String("alert_id", a.ID.String()),
			zap.Error(err))
		return err
	}

	g.logger.Info("Alert notification sent",
		zap.String("alert_id", a.ID.String()),
		zap.String("channel", string(channel)))
	return nil
}
