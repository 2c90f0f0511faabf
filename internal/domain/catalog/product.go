package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vendora/backend/internal/domain/alert"
	"github.com/vendora/backend/internal/domain/shared"
)

// ProductStatus represents the status of a product listing
type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusInactive     ProductStatus = "inactive"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

// Product represents a seller's listing/SKU in the marketplace catalog
// It is the aggregate root for product-related operations
type Product struct {
	shared.SellerAggregateRoot
	SKU               string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_product_seller_sku,priority:2"`
	Name              string          `gorm:"type:varchar(200);not null"`
	Description       string          `gorm:"type:text"`
	WarehouseID       *uuid.UUID      `gorm:"type:uuid;index"`
	SellingPrice      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CurrentStock      int             `gorm:"not null;default:0"`
	LowStockThreshold int             `gorm:"not null;default:0"` // 0 disables low stock monitoring
	ReorderPoint      int             `gorm:"not null;default:0"` // 0 disables reorder monitoring
	TrackInventory    bool            `gorm:"not null;default:true"`
	Status            ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product listing
func NewProduct(sellerID uuid.UUID, sku, name string) (*Product, error) {
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}

	product := &Product{
		SellerAggregateRoot: shared.NewSellerAggregateRoot(sellerID),
		SKU:                 strings.ToUpper(sku),
		Name:                name,
		SellingPrice:        decimal.Zero,
		TrackInventory:      true,
		Status:              ProductStatusActive,
	}
	return product, nil
}

// SetThresholds configures the monitoring thresholds for the product
func (p *Product) SetThresholds(lowStockThreshold, reorderPoint int) error {
	if lowStockThreshold < 0 || reorderPoint < 0 {
		return shared.NewDomainError("INVALID_THRESHOLD", "Thresholds cannot be negative")
	}
	p.LowStockThreshold = lowStockThreshold
	p.ReorderPoint = reorderPoint
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// AdjustStock applies a stock delta, clamping at zero
func (p *Product) AdjustStock(delta int) {
	p.CurrentStock += delta
	if p.CurrentStock < 0 {
		p.CurrentStock = 0
	}
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// IsMonitored reports whether the sweep should evaluate this product.
// Discontinued listings and listings without inventory tracking are
// skipped.
func (p *Product) IsMonitored() bool {
	return p.TrackInventory && p.Status != ProductStatusDiscontinued
}

// StockSnapshot exposes the state the alert classifier evaluates
func (p *Product) StockSnapshot() alert.StockSnapshot {
	return alert.StockSnapshot{
		CurrentStock:      p.CurrentStock,
		LowStockThreshold: p.LowStockThreshold,
		ReorderPoint:      p.ReorderPoint,
	}
}

func validateSKU(sku string) error {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "Product SKU cannot be empty")
	}
	if len(sku) > 50 {
		return shared.NewDomainError("INVALID_SKU", "Product SKU cannot exceed 50 characters")
	}
	return nil
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
