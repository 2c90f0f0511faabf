package notification

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vendora/backend/internal/domain/alert"
	"github.com/vendora/backend/internal/domain/forecast"
)

// LoggingNotifier records notifications in the application log instead
// of delivering them. Used when outbound notifications are disabled,
// so the at-most-once bookkeeping still behaves as in production.
type LoggingNotifier struct {
	logger *zap.Logger
}

// NewLoggingNotifier creates a new LoggingNotifier
func NewLoggingNotifier(logger *zap.Logger) *LoggingNotifier {
	return &LoggingNotifier{logger: logger}
}

// SendAlertNotification logs the alert as an in-app notification
func (n *LoggingNotifier) SendAlertNotification(ctx context.Context, a *alert.Alert) (alert.Channel, error) {
	n.logger.Warn("Stock alert raised",
		zap.String("alert_id", a.ID.String()),
		zap.String("seller_id", a.SellerID.String()),
		zap.String("product_id", a.ProductID.String()),
		zap.String("type", string(a.Type)),
		zap.String("priority", string(a.Priority)),
		zap.Int("current_stock", a.CurrentStock),
		zap.Int("threshold", a.Threshold))
	return alert.ChannelInApp, nil
}

// SendPredictionWarning logs the predicted stock-out
func (n *LoggingNotifier) SendPredictionWarning(ctx context.Context, sellerID, productID uuid.UUID, p forecast.Prediction) error {
	n.logger.Warn("Predicted stock-out",
		zap.String("seller_id", sellerID.String()),
		zap.String("product_id", productID.String()),
		zap.String("sales_velocity", p.SalesVelocity.String()),
		zap.Int("predicted_stock_out_days", p.PredictedStockOut),
		zap.Int("confidence", p.Confidence))
	return nil
}
