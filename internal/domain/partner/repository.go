package partner

import (
	"context"

	"github.com/google/uuid"
)

// SupplierRepository is the persistence port for suppliers
type SupplierRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	// FindRestockSupplier resolves the supplier a restock request for
	// the product should go to: the preferred linked supplier, falling
	// back to any linked supplier with auto-restock enabled.
	FindRestockSupplier(ctx context.Context, productID uuid.UUID) (*Supplier, error)
}

// WarehouseRepository is the persistence port for warehouses
type WarehouseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Warehouse, error)
}
