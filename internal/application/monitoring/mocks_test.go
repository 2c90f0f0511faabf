package monitoring

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vendora/backend/internal/domain/alert"
	"github.com/vendora/backend/internal/domain/catalog"
	"github.com/vendora/backend/internal/domain/forecast"
	"github.com/vendora/backend/internal/domain/partner"
	"github.com/vendora/backend/internal/domain/shared"
	"github.com/vendora/backend/internal/domain/trade"
)

// mockAlertRepository is an in-memory alert.Repository with the same
// active-alert dedup semantics as the real store
type mockAlertRepository struct {
	mu        sync.Mutex
	alerts    map[uuid.UUID]*alert.Alert
	upsertErr error
	updateErr error

	upsertCalls int
	updateCalls int
}

func newMockAlertRepository() *mockAlertRepository {
	return &mockAlertRepository{alerts: make(map[uuid.UUID]*alert.Alert)}
}

func (r *mockAlertRepository) Upsert(ctx context.Context, a *alert.Alert) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upsertCalls++
	if r.upsertErr != nil {
		return false, r.upsertErr
	}
	for _, existing := range r.alerts {
		if existing.SellerID == a.SellerID && existing.ProductID == a.ProductID &&
			existing.Type == a.Type && existing.Status == alert.StatusActive {
			if err := existing.Refresh(alert.ProposedAlert{
				Type:               a.Type,
				Priority:           a.Priority,
				CurrentStock:       a.CurrentStock,
				Threshold:          a.Threshold,
				RecommendedRestock: a.RecommendedRestock,
			}); err != nil {
				return false, err
			}
			*a = *existing
			return false, nil
		}
	}
	r.alerts[a.ID] = a
	return true, nil
}

func (r *mockAlertRepository) Update(ctx context.Context, a *alert.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateCalls++
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.alerts[a.ID]; !ok {
		return shared.ErrNotFound
	}
	r.alerts[a.ID] = a
	return nil
}

func (r *mockAlertRepository) FindByID(ctx context.Context, id uuid.UUID) (*alert.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.alerts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return a, nil
}

func (r *mockAlertRepository) FindActive(ctx context.Context, sellerID, productID uuid.UUID, alertType alert.Type) (*alert.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.alerts {
		if a.SellerID == sellerID && a.ProductID == productID &&
			a.Type == alertType && a.Status == alert.StatusActive {
			return a, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *mockAlertRepository) List(ctx context.Context, sellerID uuid.UUID, filter alert.Filter) (*shared.Paginated[alert.Alert], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []alert.Alert
	for _, a := range r.alerts {
		if a.SellerID != sellerID {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.Type != "" && a.Type != filter.Type {
			continue
		}
		if filter.Priority != "" && a.Priority != filter.Priority {
			continue
		}
		if filter.ProductID != nil && a.ProductID != *filter.ProductID {
			continue
		}
		items = append(items, *a)
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	result := shared.NewPaginated(items, int64(len(items)), page, pageSize)
	return &result, nil
}

func (r *mockAlertRepository) CountBySeller(ctx context.Context, sellerID uuid.UUID) (*alert.Counts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := &alert.Counts{ByType: make(map[alert.Type]int64)}
	for _, a := range r.alerts {
		if a.SellerID != sellerID {
			continue
		}
		counts.Total++
		if a.Status != alert.StatusActive {
			continue
		}
		counts.Active++
		counts.ByType[a.Type]++
		switch a.Priority {
		case alert.PriorityCritical:
			counts.Critical++
		case alert.PriorityHigh:
			counts.High++
		}
	}
	return counts, nil
}

// activeCount reports active alerts for assertions
func (r *mockAlertRepository) activeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, a := range r.alerts {
		if a.Status == alert.StatusActive {
			n++
		}
	}
	return n
}

// mockProductRepository is an in-memory catalog.ProductRepository
type mockProductRepository struct {
	mu       sync.Mutex
	products map[uuid.UUID]*catalog.Product
	findErr  error
}

func newMockProductRepository(products ...*catalog.Product) *mockProductRepository {
	r := &mockProductRepository{products: make(map[uuid.UUID]*catalog.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	p, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *mockProductRepository) FindBySellerID(ctx context.Context, sellerID uuid.UUID) ([]*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*catalog.Product
	for _, p := range r.products {
		if p.SellerID == sellerID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *mockProductRepository) FindMonitored(ctx context.Context, sellerID uuid.UUID) ([]*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	var result []*catalog.Product
	for _, p := range r.products {
		if p.SellerID == sellerID && p.IsMonitored() {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *mockProductRepository) FindByWarehouseID(ctx context.Context, warehouseID uuid.UUID) ([]*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*catalog.Product
	for _, p := range r.products {
		if p.WarehouseID != nil && *p.WarehouseID == warehouseID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *mockProductRepository) SellersWithMonitoredProducts(ctx context.Context) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[uuid.UUID]bool)
	var result []uuid.UUID
	for _, p := range r.products {
		if p.IsMonitored() && !seen[p.SellerID] {
			seen[p.SellerID] = true
			result = append(result, p.SellerID)
		}
	}
	return result, nil
}

func (r *mockProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = product
	return nil
}

// mockOrderRepository returns canned sales stats
type mockOrderRepository struct {
	stats    trade.SalesStats
	statsErr error
}

func (r *mockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	return nil, shared.ErrNotFound
}

func (r *mockOrderRepository) SalesStatsForProduct(ctx context.Context, productID uuid.UUID, since time.Time) (*trade.SalesStats, error) {
	if r.statsErr != nil {
		return nil, r.statsErr
	}
	stats := r.stats
	return &stats, nil
}

// mockSupplierRepository resolves one canned restock supplier
type mockSupplierRepository struct {
	supplier *partner.Supplier
	err      error
}

func (r *mockSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	if r.supplier != nil && r.supplier.ID == id {
		return r.supplier, nil
	}
	return nil, shared.ErrNotFound
}

func (r *mockSupplierRepository) FindRestockSupplier(ctx context.Context, productID uuid.UUID) (*partner.Supplier, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.supplier == nil {
		return nil, shared.ErrNotFound
	}
	return r.supplier, nil
}

// mockWarehouseRepository holds one canned warehouse
type mockWarehouseRepository struct {
	warehouse *partner.Warehouse
}

func (r *mockWarehouseRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Warehouse, error) {
	if r.warehouse != nil && r.warehouse.ID == id {
		return r.warehouse, nil
	}
	return nil, shared.ErrNotFound
}

// mockNotifier records outbound notifications
type mockNotifier struct {
	mu          sync.Mutex
	sent        []uuid.UUID
	predictions []uuid.UUID
	sendErr     error
}

func (n *mockNotifier) SendAlertNotification(ctx context.Context, a *alert.Alert) (alert.Channel, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.sendErr != nil {
		return "", n.sendErr
	}
	n.sent = append(n.sent, a.ID)
	return alert.ChannelEmail, nil
}

func (n *mockNotifier) SendPredictionWarning(ctx context.Context, sellerID, productID uuid.UUID, p forecast.Prediction) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.sendErr != nil {
		return n.sendErr
	}
	n.predictions = append(n.predictions, productID)
	return nil
}

func (n *mockNotifier) sentCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

// mockReservationStore is an in-memory shared.ReservationStore.
// Set lost to simulate another process holding the reservation.
type mockReservationStore struct {
	mu       sync.Mutex
	reserved map[string]bool
	lost     bool
	err      error
}

func newMockReservationStore() *mockReservationStore {
	return &mockReservationStore{reserved: make(map[string]bool)}
}

func (s *mockReservationStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	if s.lost || s.reserved[key] {
		return false, nil
	}
	s.reserved[key] = true
	return true, nil
}

func (s *mockReservationStore) IsReserved(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reserved[key], nil
}

func (s *mockReservationStore) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reserved, key)
	return nil
}

// mockTransport records dispatched restock requests
type mockTransport struct {
	mu       sync.Mutex
	requests []RestockRequest
	orderRef *uuid.UUID
	err      error
}

func (t *mockTransport) Dispatch(ctx context.Context, req RestockRequest) (*uuid.UUID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return nil, t.err
	}
	t.requests = append(t.requests, req)
	return t.orderRef, nil
}

// mockEventPublisher captures published domain events
type mockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *mockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *mockEventPublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.EventType()
	}
	return types
}

// monitoredProduct builds a tracked product with the given stock levels
func monitoredProduct(sellerID uuid.UUID, sku string, stock, lowThreshold, reorderPoint int) *catalog.Product {
	p, err := catalog.NewProduct(sellerID, sku, "Product "+sku)
	if err != nil {
		panic(err)
	}
	p.CurrentStock = stock
	p.LowStockThreshold = lowThreshold
	p.ReorderPoint = reorderPoint
	return p
}
