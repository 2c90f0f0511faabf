package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/vendora/backend/internal/domain/shared"
	"github.com/vendora/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormOrderRepository implements trade.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds a sales order with its lines
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var order trade.Order
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// SalesStatsForProduct sums sold units and counts distinct orders for
// a product since the given instant. Only committed orders count.
func (r *GormOrderRepository) SalesStatsForProduct(ctx context.Context, productID uuid.UUID, since time.Time) (*trade.SalesStats, error) {
	var stats trade.SalesStats
	if err := r.db.WithContext(ctx).
		Model(&trade.OrderLine{}).
		Select("COALESCE(SUM(sales_order_lines.quantity), 0) as units_sold, COUNT(DISTINCT sales_order_lines.order_id) as orders_count").
		Joins("JOIN sales_orders ON sales_orders.id = sales_order_lines.order_id").
		Where("sales_order_lines.product_id = ?", productID).
		Where("sales_orders.placed_at >= ?", since).
		Where("sales_orders.status IN ?", trade.CountableStatuses()).
		Scan(&stats).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}
