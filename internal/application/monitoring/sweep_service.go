package monitoring

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vendora/backend/internal/domain/alert"
	"github.com/vendora/backend/internal/domain/catalog"
	"github.com/vendora/backend/internal/domain/partner"
	"github.com/vendora/backend/internal/domain/shared"
	"github.com/vendora/backend/internal/infrastructure/config"
)

// AutoRestocker triggers a restock dispatch for a freshly created alert.
// Implemented by RestockService; split out so sweeps can be tested
// without a supplier backend.
type AutoRestocker interface {
	TriggerForAlert(ctx context.Context, a *alert.Alert) (*RestockResponse, error)
}

// SweepService runs threshold checks across seller catalogs, creating
// and refreshing stock alerts through the deduplicating alert store.
type SweepService struct {
	productRepo    catalog.ProductRepository
	warehouseRepo  partner.WarehouseRepository
	alertRepo      alert.Repository
	eventPublisher shared.EventPublisher
	restocker      AutoRestocker
	metrics        SweepMetrics
	logger         *zap.Logger
	cfg            config.SweepConfig
}

// NewSweepService creates a new SweepService
func NewSweepService(
	productRepo catalog.ProductRepository,
	warehouseRepo partner.WarehouseRepository,
	alertRepo alert.Repository,
	cfg config.SweepConfig,
	logger *zap.Logger,
) *SweepService {
	return &SweepService{
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		alertRepo:     alertRepo,
		cfg:           cfg,
		metrics:       NopSweepMetrics{},
		logger:        logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *SweepService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetAutoRestocker enables restock dispatch for restockable alerts
func (s *SweepService) SetAutoRestocker(restocker AutoRestocker) {
	s.restocker = restocker
}

// SetMetrics sets the telemetry sink
func (s *SweepService) SetMetrics(metrics SweepMetrics) {
	s.metrics = metrics
}

// CheckProduct runs an on-demand threshold check for one product
func (s *SweepService) CheckProduct(ctx context.Context, sellerID, productID uuid.UUID) (*CheckResultResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.OwnedBy(sellerID) {
		return nil, shared.ErrForbidden
	}
	return s.checkProduct(ctx, product)
}

// checkProduct classifies the product's stock level and stores the
// resulting alert, if any. A collision with an existing active alert of
// the same type refreshes that alert instead of creating a duplicate.
func (s *SweepService) checkProduct(ctx context.Context, product *catalog.Product) (*CheckResultResponse, error) {
	result := &CheckResultResponse{ProductID: product.ID}

	if !product.IsMonitored() {
		return result, nil
	}
	result.Checked = true

	proposed := alert.Classify(product.StockSnapshot())
	if proposed == nil {
		return result, nil
	}

	a, err := alert.New(product.SellerID, product.ID, product.WarehouseID, *proposed)
	if err != nil {
		return nil, err
	}
	a.AutoRestockEnabled = s.cfg.AutoRestockable

	created, err := s.alertRepo.Upsert(ctx, a)
	if err != nil {
		return nil, err
	}
	result.AlertCreated = created
	result.Alert = ToAlertResponse(a)

	if created {
		s.publishDomainEvents(ctx, a)
		s.metrics.RecordAlertCreated(ctx, a.Type, a.Priority)
		s.maybeAutoRestock(ctx, a)
	}

	return result, nil
}

// maybeAutoRestock dispatches a restock for alerts that call for one.
// Failures are logged, never propagated: a broken supplier channel must
// not fail the sweep that detected the condition.
func (s *SweepService) maybeAutoRestock(ctx context.Context, a *alert.Alert) {
	if s.restocker == nil || !s.cfg.AutoRestockable {
		return
	}
	if a.Type != alert.TypeOutOfStock && a.Type != alert.TypeRestockNeeded {
		return
	}
	if _, err := s.restocker.TriggerForAlert(ctx, a); err != nil {
		s.logger.Warn("Auto-restock dispatch failed",
			zap.String("alert_id", a.ID.String()),
			zap.String("product_id", a.ProductID.String()),
			zap.Error(err))
	}
}

// CheckSeller sweeps every monitored product of one seller. Products
// are checked concurrently, bounded by the configured concurrency, and
// a failing product is counted rather than aborting the sweep.
func (s *SweepService) CheckSeller(ctx context.Context, sellerID uuid.UUID) (*SweepResultResponse, error) {
	products, err := s.productRepo.FindMonitored(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	return s.sweepProducts(ctx, products)
}

// CheckAllSellers sweeps every seller that has monitored products
func (s *SweepService) CheckAllSellers(ctx context.Context) (*SweepResultResponse, error) {
	start := time.Now()

	sellerIDs, err := s.productRepo.SellersWithMonitoredProducts(ctx)
	if err != nil {
		return nil, err
	}

	total := &SweepResultResponse{}
	for _, sellerID := range sellerIDs {
		result, err := s.CheckSeller(ctx, sellerID)
		if err != nil {
			s.logger.Error("Seller sweep failed",
				zap.String("seller_id", sellerID.String()),
				zap.Error(err))
			total.Failures++
			continue
		}
		total.ProductsChecked += result.ProductsChecked
		total.AlertsCreated += result.AlertsCreated
		total.AlertsRefreshed += result.AlertsRefreshed
		total.Failures += result.Failures
	}
	total.DurationMS = time.Since(start).Milliseconds()

	s.metrics.RecordSweep(ctx, total.ProductsChecked, total.AlertsCreated)
	s.logger.Info("Monitoring sweep completed",
		zap.Int("sellers", len(sellerIDs)),
		zap.Int("products_checked", total.ProductsChecked),
		zap.Int("alerts_created", total.AlertsCreated),
		zap.Int("alerts_refreshed", total.AlertsRefreshed),
		zap.Int("failures", total.Failures),
		zap.Int64("duration_ms", total.DurationMS))
	return total, nil
}

// CheckWarehouse checks stock levels of the seller's products in one
// warehouse against the fixed warehouse threshold.
func (s *SweepService) CheckWarehouse(ctx context.Context, sellerID, warehouseID uuid.UUID) (*SweepResultResponse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if !warehouse.OwnedBy(sellerID) {
		return nil, shared.ErrForbidden
	}

	products, err := s.productRepo.FindByWarehouseID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result := &SweepResultResponse{}
	for _, product := range products {
		if !product.OwnedBy(sellerID) || !product.IsMonitored() {
			continue
		}
		result.ProductsChecked++

		proposed := alert.ClassifyWarehouse(product.CurrentStock)
		if proposed == nil {
			continue
		}
		a, err := alert.New(product.SellerID, product.ID, product.WarehouseID, *proposed)
		if err != nil {
			result.Failures++
			continue
		}
		created, err := s.alertRepo.Upsert(ctx, a)
		if err != nil {
			s.logger.Error("Warehouse check failed to store alert",
				zap.String("product_id", product.ID.String()),
				zap.Error(err))
			result.Failures++
			continue
		}
		if created {
			result.AlertsCreated++
			s.publishDomainEvents(ctx, a)
			s.metrics.RecordAlertCreated(ctx, a.Type, a.Priority)
		} else {
			result.AlertsRefreshed++
		}
	}
	result.DurationMS = time.Since(start).Milliseconds()
	return result, nil
}

// sweepProducts checks a batch of products with bounded concurrency
func (s *SweepService) sweepProducts(ctx context.Context, products []*catalog.Product) (*SweepResultResponse, error) {
	start := time.Now()
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	concurrency := s.cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	var mu sync.Mutex
	result := &SweepResultResponse{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, product := range products {
		g.Go(func() error {
			checked, err := s.checkProduct(gctx, product)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.Error("Product check failed",
					zap.String("product_id", product.ID.String()),
					zap.Error(err))
				result.Failures++
				return nil
			}
			if checked.Checked {
				result.ProductsChecked++
			}
			if checked.Alert != nil {
				if checked.AlertCreated {
					result.AlertsCreated++
				} else {
					result.AlertsRefreshed++
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	result.DurationMS = time.Since(start).Milliseconds()
	return result, nil
}

func (s *SweepService) publishDomainEvents(ctx context.Context, a *alert.Alert) {
	if s.eventPublisher == nil {
		return
	}
	events := a.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	a.ClearDomainEvents()
}
