package monitoring

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vendora/backend/internal/domain/alert"
	"github.com/vendora/backend/internal/domain/catalog"
	"github.com/vendora/backend/internal/domain/partner"
	"github.com/vendora/backend/internal/domain/shared"
)

// RestockService dispatches purchase requests to suppliers in response
// to stock alerts. Dispatch is at most once per alert: the trigger flag
// on the alert is monotonic and is only set after the supplier channel
// confirmed delivery.
type RestockService struct {
	alertRepo       alert.Repository
	productRepo     catalog.ProductRepository
	supplierRepo    partner.SupplierRepository
	transports      map[partner.RestockMethod]RestockTransport
	eventPublisher  shared.EventPublisher
	metrics         SweepMetrics
	logger          *zap.Logger
	defaultQuantity int
}

// NewRestockService creates a new RestockService
func NewRestockService(
	alertRepo alert.Repository,
	productRepo catalog.ProductRepository,
	supplierRepo partner.SupplierRepository,
	defaultQuantity int,
	logger *zap.Logger,
) *RestockService {
	return &RestockService{
		alertRepo:       alertRepo,
		productRepo:     productRepo,
		supplierRepo:    supplierRepo,
		transports:      make(map[partner.RestockMethod]RestockTransport),
		metrics:         NopSweepMetrics{},
		logger:          logger,
		defaultQuantity: defaultQuantity,
	}
}

// RegisterTransport binds a delivery method to its transport
func (s *RestockService) RegisterTransport(method partner.RestockMethod, transport RestockTransport) {
	s.transports[method] = transport
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *RestockService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetrics sets the telemetry sink
func (s *RestockService) SetMetrics(metrics SweepMetrics) {
	s.metrics = metrics
}

// Trigger dispatches a restock for the alert on behalf of the seller
func (s *RestockService) Trigger(ctx context.Context, sellerID, alertID uuid.UUID) (*RestockResponse, error) {
	a, err := s.alertRepo.FindByID(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if !a.OwnedBy(sellerID) {
		return nil, shared.ErrForbidden
	}
	return s.TriggerForAlert(ctx, a)
}

// TriggerForAlert dispatches a restock request for the alert's product.
// An alert that was already restocked, or whose product has no supplier
// with auto-restock enabled, is skipped quietly: the result and error
// are both nil, so repeated trigger calls are safe.
func (s *RestockService) TriggerForAlert(ctx context.Context, a *alert.Alert) (*RestockResponse, error) {
	if a.AutoRestockTriggered {
		s.logger.Debug("Restock already dispatched, skipping",
			zap.String("alert_id", a.ID.String()))
		return nil, nil
	}
	if !a.IsOpen() {
		return nil, shared.ErrInvalidState
	}

	product, err := s.productRepo.FindByID(ctx, a.ProductID)
	if err != nil {
		return nil, err
	}

	supplier, err := s.supplierRepo.FindRestockSupplier(ctx, a.ProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Debug("No auto-restock supplier for product, skipping",
				zap.String("alert_id", a.ID.String()),
				zap.String("product_id", a.ProductID.String()))
			return nil, nil
		}
		return nil, err
	}
	if !supplier.CanAutoRestock() {
		s.logger.Debug("No auto-restock supplier for product, skipping",
			zap.String("alert_id", a.ID.String()),
			zap.String("product_id", a.ProductID.String()))
		return nil, nil
	}

	transport, ok := s.transports[supplier.RestockMethod]
	if !ok {
		return nil, shared.NewDomainError("UNSUPPORTED_RESTOCK_METHOD", fmt.Sprintf("No transport registered for restock method %q", supplier.RestockMethod))
	}

	quantity := a.RestockQuantity(s.defaultQuantity)
	orderRef, err := transport.Dispatch(ctx, RestockRequest{
		SellerID:    a.SellerID,
		ProductID:   product.ID,
		ProductSKU:  product.SKU,
		ProductName: product.Name,
		Quantity:    quantity,
		Supplier:    supplier,
	})
	if err != nil {
		s.metrics.RecordRestockDispatch(ctx, supplier.RestockMethod, false)
		return nil, fmt.Errorf("dispatch restock to supplier %s: %w", supplier.ID, err)
	}
	s.metrics.RecordRestockDispatch(ctx, supplier.RestockMethod, true)

	if err := a.MarkRestockTriggered(orderRef); err != nil {
		return nil, err
	}
	if err := s.alertRepo.Update(ctx, a); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		event := alert.NewRestockRequiredEvent(a, supplier.ID, quantity)
		_ = s.eventPublisher.Publish(ctx, event)
	}

	s.logger.Info("Restock dispatched",
		zap.String("alert_id", a.ID.String()),
		zap.String("product_id", product.ID.String()),
		zap.String("supplier_id", supplier.ID.String()),
		zap.String("method", string(supplier.RestockMethod)),
		zap.Int("quantity", quantity))

	return &RestockResponse{
		AlertID:      a.ID,
		ProductID:    product.ID,
		SupplierID:   supplier.ID,
		SupplierName: supplier.Name,
		Method:       string(supplier.RestockMethod),
		Quantity:     quantity,
		OrderID:      orderRef,
	}, nil
}

var _ AutoRestocker = (*RestockService)(nil)
