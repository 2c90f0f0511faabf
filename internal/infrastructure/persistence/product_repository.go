package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vendora/backend/internal/domain/catalog"
	"github.com/vendora/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindBySellerID finds all products belonging to a seller
func (r *GormProductRepository) FindBySellerID(ctx context.Context, sellerID uuid.UUID) ([]*catalog.Product, error) {
	var products []*catalog.Product
	if err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindMonitored finds a seller's products eligible for threshold sweeps
func (r *GormProductRepository) FindMonitored(ctx context.Context, sellerID uuid.UUID) ([]*catalog.Product, error) {
	var products []*catalog.Product
	if err := r.db.WithContext(ctx).
		Where("seller_id = ? AND track_inventory = ? AND status <> ?",
			sellerID, true, catalog.ProductStatusDiscontinued).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindByWarehouseID finds all products stocked in a warehouse
func (r *GormProductRepository) FindByWarehouseID(ctx context.Context, warehouseID uuid.UUID) ([]*catalog.Product, error) {
	var products []*catalog.Product
	if err := r.db.WithContext(ctx).
		Where("warehouse_id = ?", warehouseID).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// SellersWithMonitoredProducts lists distinct sellers that have at
// least one product eligible for sweeps. The scheduler iterates this.
func (r *GormProductRepository) SellersWithMonitoredProducts(ctx context.Context) ([]uuid.UUID, error) {
	var sellerIDs []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Distinct("seller_id").
		Where("track_inventory = ? AND status <> ?", true, catalog.ProductStatusDiscontinued).
		Pluck("seller_id", &sellerIDs).Error; err != nil {
		return nil, err
	}
	return sellerIDs, nil
}

// Update persists product changes
func (r *GormProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}
