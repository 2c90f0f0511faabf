package restock

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/vendora/backend/internal/application/monitoring"
	"github.com/vendora/backend/internal/infrastructure/notification"
)

// EmailTransport sends restock purchase requests to the supplier's
// contact address. Email carries no supplier-side order reference, so
// the returned order id is always nil.
type EmailTransport struct {
	mailer notification.Mailer
}

// NewEmailTransport creates a new EmailTransport
func NewEmailTransport(mailer notification.Mailer) *EmailTransport {
	return &EmailTransport{mailer: mailer}
}

// Dispatch emails the purchase request to the supplier
func (t *EmailTransport) Dispatch(ctx context.Context, req monitoring.RestockRequest) (*uuid.UUID, error) {
	if req.Supplier == nil || req.Supplier.Email == "" {
		return nil, fmt.Errorf("restock: supplier has no contact email")
	}

	subject := fmt.Sprintf("Restock request: %d x %s", req.Quantity, req.ProductSKU)
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", req.Supplier.Name)
	fmt.Fprintf(&b, "Please restock the following item:\n\n")
	fmt.Fprintf(&b, "  SKU:      %s\n", req.ProductSKU)
	fmt.Fprintf(&b, "  Product:  %s\n", req.ProductName)
	fmt.Fprintf(&b, "  Quantity: %d\n\n", req.Quantity)
	fmt.Fprintf(&b, "Reference: product %s, seller %s\n", req.ProductID, req.SellerID)

	if err := t.mailer.Send(ctx, []string{req.Supplier.Email}, subject, b.String()); err != nil {
		return nil, err
	}
	return nil, nil
}

var _ monitoring.RestockTransport = (*EmailTransport)(nil)
