package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vendora/backend/internal/domain/shared"
)

// RestockMethod is how a restock request reaches the supplier
type RestockMethod string

const (
	RestockMethodEmail RestockMethod = "email"
	RestockMethodAPI   RestockMethod = "api"
)

// Supplier represents a seller's upstream supplier.
// It is the aggregate root for supplier-related operations.
type Supplier struct {
	shared.SellerAggregateRoot
	Name               string        `gorm:"type:varchar(200);not null"`
	ContactName        string        `gorm:"type:varchar(100)"`
	Email              string        `gorm:"type:varchar(255)"`
	Phone              string        `gorm:"type:varchar(50)"`
	AutoRestockEnabled bool          `gorm:"not null;default:false"`
	RestockMethod      RestockMethod `gorm:"type:varchar(10);not null;default:'email'"`
	APIEndpoint        string        `gorm:"type:varchar(500)"`
	IsActive           bool          `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new supplier
func NewSupplier(sellerID uuid.UUID, name string) (*Supplier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}
	return &Supplier{
		SellerAggregateRoot: shared.NewSellerAggregateRoot(sellerID),
		Name:                name,
		RestockMethod:       RestockMethodEmail,
		IsActive:            true,
	}, nil
}

// EnableAutoRestock turns on automatic restocking via the given method.
// Email restocking requires a contact email, API restocking an endpoint.
func (s *Supplier) EnableAutoRestock(method RestockMethod) error {
	switch method {
	case RestockMethodEmail:
		if s.Email == "" {
			return shared.NewDomainError("MISSING_EMAIL", "Supplier has no contact email for restock requests")
		}
	case RestockMethodAPI:
		if s.APIEndpoint == "" {
			return shared.NewDomainError("MISSING_ENDPOINT", "Supplier has no API endpoint for restock requests")
		}
	default:
		return shared.NewDomainError("INVALID_METHOD", "Unknown restock method")
	}
	s.AutoRestockEnabled = true
	s.RestockMethod = method
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// DisableAutoRestock turns off automatic restocking
func (s *Supplier) DisableAutoRestock() {
	s.AutoRestockEnabled = false
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// CanAutoRestock reports whether a restock request may be dispatched
func (s *Supplier) CanAutoRestock() bool {
	return s.IsActive && s.AutoRestockEnabled
}

// ProductSupplier links a product to a supplier that can restock it
type ProductSupplier struct {
	shared.BaseEntity
	ProductID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_supplier,priority:1"`
	SupplierID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_supplier,priority:2"`
	Preferred    bool      `gorm:"not null;default:false"`
	LeadTimeDays int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductSupplier) TableName() string {
	return "product_suppliers"
}
