package partner

import (
	"strings"

	"github.com/google/uuid"
	"github.com/vendora/backend/internal/domain/shared"
)

// Warehouse represents a storage location holding seller stock
type Warehouse struct {
	shared.SellerAggregateRoot
	Code     string `gorm:"type:varchar(50);not null;uniqueIndex:idx_warehouse_seller_code,priority:2"`
	Name     string `gorm:"type:varchar(200);not null"`
	Address  string `gorm:"type:text"`
	IsActive bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Warehouse) TableName() string {
	return "warehouses"
}

// NewWarehouse creates a new warehouse
func NewWarehouse(sellerID uuid.UUID, code, name string) (*Warehouse, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Warehouse code cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Warehouse name cannot be empty")
	}
	return &Warehouse{
		SellerAggregateRoot: shared.NewSellerAggregateRoot(sellerID),
		Code:                strings.ToUpper(code),
		Name:                name,
		IsActive:            true,
	}, nil
}
