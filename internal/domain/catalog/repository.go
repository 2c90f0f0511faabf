package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository is the persistence port for products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySellerID(ctx context.Context, sellerID uuid.UUID) ([]*Product, error)
	FindMonitored(ctx context.Context, sellerID uuid.UUID) ([]*Product, error)
	FindByWarehouseID(ctx context.Context, warehouseID uuid.UUID) ([]*Product, error)
	SellersWithMonitoredProducts(ctx context.Context) ([]uuid.UUID, error)
	Update(ctx context.Context, product *Product) error
}
