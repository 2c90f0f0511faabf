package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vendora/backend/internal/domain/partner"
	"github.com/vendora/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormSupplierRepository implements partner.SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// FindByID finds a supplier by its ID
func (r *GormSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	var supplier partner.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

// FindRestockSupplier resolves the supplier a restock request for the
// product should go to. Linked suppliers are ordered preferred-first,
// and only active suppliers with auto-restock enabled qualify.
func (r *GormSupplierRepository) FindRestockSupplier(ctx context.Context, productID uuid.UUID) (*partner.Supplier, error) {
	var supplier partner.Supplier
	if err := r.db.WithContext(ctx).
		Joins("JOIN product_suppliers ON product_suppliers.supplier_id = suppliers.id").
		Where("product_suppliers.product_id = ?", productID).
		Where("suppliers.is_active = ? AND suppliers.auto_restock_enabled = ?", true, true).
		Order("product_suppliers.preferred DESC, product_suppliers.created_at ASC").
		First(&supplier).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &supplier, nil
}
