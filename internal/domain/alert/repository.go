package alert

import (
	"context"

	"github.com/google/uuid"
	"github.com/vendora/backend/internal/domain/shared"
)

// Filter narrows alert listings. Zero values mean no constraint.
type Filter struct {
	shared.Filter
	Status    Status
	Type      Type
	Priority  Priority
	ProductID *uuid.UUID
}

// Counts summarizes a seller's alerts for dashboard badges. Critical,
// High, and ByType are scoped to active alerts.
type Counts struct {
	Total    int64          `json:"total"`
	Active   int64          `json:"active"`
	Critical int64          `json:"critical"`
	High     int64          `json:"high"`
	ByType   map[Type]int64 `json:"by_type" gorm:"-"`
}

// Repository is the persistence port for alerts.
//
// Upsert implements dedup for active alerts: at most one active alert
// may exist per (seller, product, type). When an insert collides with
// an existing active row the implementation refreshes that row with the
// new snapshot instead, and reports created=false.
type Repository interface {
	Upsert(ctx context.Context, a *Alert) (created bool, err error)
	Update(ctx context.Context, a *Alert) error
	FindByID(ctx context.Context, id uuid.UUID) (*Alert, error)
	FindActive(ctx context.Context, sellerID, productID uuid.UUID, alertType Type) (*Alert, error)
	List(ctx context.Context, sellerID uuid.UUID, filter Filter) (*shared.Paginated[Alert], error)
	CountBySeller(ctx context.Context, sellerID uuid.UUID) (*Counts, error)
}
