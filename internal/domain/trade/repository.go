package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SalesStats aggregates a product's sales inside a time window
type SalesStats struct {
	UnitsSold   int64
	OrdersCount int64
}

// OrderRepository is the persistence port for sales orders
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// SalesStatsForProduct sums sold units and counts distinct orders
	// for the product since the given instant, excluding cancelled
	// orders.
	SalesStatsForProduct(ctx context.Context, productID uuid.UUID, since time.Time) (*SalesStats, error)
}
