package monitoring

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vendora/backend/internal/domain/alert"
	"github.com/vendora/backend/internal/domain/catalog"
	"github.com/vendora/backend/internal/domain/forecast"
	"github.com/vendora/backend/internal/domain/shared"
	"github.com/vendora/backend/internal/domain/trade"
)

// predictionReservationKey namespaces predictive-warning reservations
// apart from alert notification reservations in the shared store.
const predictionReservationKey = "prediction:"

// PredictionService computes on-demand sales-velocity forecasts and
// attaches them to the product's open alert when one exists.
type PredictionService struct {
	productRepo    catalog.ProductRepository
	orderRepo      trade.OrderRepository
	alertRepo      alert.Repository
	notifier       Notifier
	reservations   shared.ReservationStore
	reservationTTL time.Duration
	logger         *zap.Logger
}

// NewPredictionService creates a new PredictionService
func NewPredictionService(
	productRepo catalog.ProductRepository,
	orderRepo trade.OrderRepository,
	alertRepo alert.Repository,
	logger *zap.Logger,
) *PredictionService {
	return &PredictionService{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		alertRepo:   alertRepo,
		logger:      logger,
	}
}

// SetNotifier enables predictive stock-out warnings. The reservation
// store deduplicates warnings across processes for the given TTL.
func (s *PredictionService) SetNotifier(notifier Notifier, reservations shared.ReservationStore, ttl time.Duration) {
	s.notifier = notifier
	s.reservations = reservations
	s.reservationTTL = ttl
}

// PredictProduct forecasts the product's stock-out from its trailing
// sales window and stores the snapshot on the open alert, if any.
func (s *PredictionService) PredictProduct(ctx context.Context, sellerID, productID uuid.UUID) (*PredictionResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.OwnedBy(sellerID) {
		return nil, shared.ErrForbidden
	}

	since := time.Now().AddDate(0, 0, -forecast.WindowDays)
	stats, err := s.orderRepo.SalesStatsForProduct(ctx, productID, since)
	if err != nil {
		return nil, err
	}

	prediction := forecast.Predict(stats.UnitsSold, stats.OrdersCount, product.CurrentStock)

	s.attachToOpenAlert(ctx, sellerID, productID, prediction)

	if prediction.StockOutWithinWeek() {
		s.sendPredictiveWarning(ctx, sellerID, productID, prediction)
	}

	return ToPredictionResponse(productID, product.CurrentStock, stats.UnitsSold, stats.OrdersCount, prediction), nil
}

// attachToOpenAlert stores the forecast on the product's active alert.
// Lookup order follows severity; a missing alert is not an error since
// predictions are valid for healthy products too.
func (s *PredictionService) attachToOpenAlert(ctx context.Context, sellerID, productID uuid.UUID, p forecast.Prediction) {
	for _, alertType := range []alert.Type{alert.TypeOutOfStock, alert.TypeLowStock, alert.TypeRestockNeeded} {
		a, err := s.alertRepo.FindActive(ctx, sellerID, productID, alertType)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			s.logger.Warn("Active alert lookup failed",
				zap.String("product_id", productID.String()),
				zap.Error(err))
			return
		}
		a.AttachPrediction(p.SalesVelocity, p.PredictedStockOut, p.Confidence)
		if err := s.alertRepo.Update(ctx, a); err != nil {
			s.logger.Warn("Failed to store prediction on alert",
				zap.String("alert_id", a.ID.String()),
				zap.Error(err))
		}
		return
	}
}

// sendPredictiveWarning notifies the seller that the product is
// forecast to stock out within a week. Best effort: a failed or
// duplicate warning never fails the prediction request.
func (s *PredictionService) sendPredictiveWarning(ctx context.Context, sellerID, productID uuid.UUID, p forecast.Prediction) {
	if s.notifier == nil || s.reservations == nil {
		return
	}

	won, err := s.reservations.Reserve(ctx, predictionReservationKey+productID.String(), s.reservationTTL)
	if err != nil {
		s.logger.Warn("Prediction warning reservation failed",
			zap.String("product_id", productID.String()),
			zap.Error(err))
		return
	}
	if !won {
		return
	}

	if err := s.notifier.SendPredictionWarning(ctx, sellerID, productID, p); err != nil {
		s.logger.Warn("Prediction warning delivery failed",
			zap.String("product_id", productID.String()),
			zap.Error(err))
		if rerr := s.reservations.Release(ctx, predictionReservationKey+productID.String()); rerr != nil {
			s.logger.Warn("Failed to release prediction warning reservation",
				zap.String("product_id", productID.String()),
				zap.Error(rerr))
		}
	}
}
