package notification

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/vendora/backend/internal/domain/alert"
	"github.com/vendora/backend/internal/domain/forecast"
	"github.com/vendora/backend/internal/domain/shared"
)

// RecipientDirectory resolves the notification address for a seller
type RecipientDirectory interface {
	SellerEmail(ctx context.Context, sellerID uuid.UUID) (string, error)
}

// StaticRecipientDirectory maps sellers to addresses from configuration
// with an optional catch-all fallback. In production this would sit on
// top of a seller account store.
type StaticRecipientDirectory struct {
	mu       sync.RWMutex
	emails   map[uuid.UUID]string
	fallback string
}

// NewStaticRecipientDirectory creates a directory with a fallback address
func NewStaticRecipientDirectory(fallback string) *StaticRecipientDirectory {
	return &StaticRecipientDirectory{
		emails:   make(map[uuid.UUID]string),
		fallback: fallback,
	}
}

// SetSellerEmail registers a seller's notification address
func (d *StaticRecipientDirectory) SetSellerEmail(sellerID uuid.UUID, email string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.emails[sellerID] = email
}

// SellerEmail returns the seller's address or the fallback
func (d *StaticRecipientDirectory) SellerEmail(ctx context.Context, sellerID uuid.UUID) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if email, ok := d.emails[sellerID]; ok {
		return email, nil
	}
	if d.fallback != "" {
		return d.fallback, nil
	}
	return "", shared.NewDomainError("NO_RECIPIENT", "No notification address configured for seller")
}

// EmailNotifier delivers alert notifications over email
type EmailNotifier struct {
	mailer    Mailer
	directory RecipientDirectory
}

// NewEmailNotifier creates a new EmailNotifier
func NewEmailNotifier(mailer Mailer, directory RecipientDirectory) *EmailNotifier {
	return &EmailNotifier{mailer: mailer, directory: directory}
}

// SendAlertNotification emails the seller about the alert
func (n *EmailNotifier) SendAlertNotification(ctx context.Context, a *alert.Alert) (alert.Channel, error) {
	to, err := n.directory.SellerEmail(ctx, a.SellerID)
	if err != nil {
		return "", err
	}

	subject := fmt.Sprintf("[%s] Stock alert: %s", strings.ToUpper(string(a.Priority)), a.Type)
	body := alertBody(a)
	if err := n.mailer.Send(ctx, []string{to}, subject, body); err != nil {
		return "", err
	}
	return alert.ChannelEmail, nil
}

// SendPredictionWarning emails the seller a predicted stock-out notice
func (n *EmailNotifier) SendPredictionWarning(ctx context.Context, sellerID, productID uuid.UUID, p forecast.Prediction) error {
	to, err := n.directory.SellerEmail(ctx, sellerID)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Predicted stock-out in %d days", p.PredictedStockOut)
	var b strings.Builder
	fmt.Fprintf(&b, "Product %s is forecast to run out of stock in %d days.\n\n", productID, p.PredictedStockOut)
	fmt.Fprintf(&b, "Sales velocity: %s units/day (last %d days)\n", p.SalesVelocity.String(), forecast.WindowDays)
	fmt.Fprintf(&b, "Forecast confidence: %d%%\n", p.Confidence)
	if p.RecommendedQuantity > 0 {
		fmt.Fprintf(&b, "Recommended restock quantity: %d units\n", p.RecommendedQuantity)
	}
	return n.mailer.Send(ctx, []string{to}, subject, b.String())
}

func alertBody(a *alert.Alert) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A %s alert was raised for product %s.\n\n", a.Type, a.ProductID)
	fmt.Fprintf(&b, "Priority: %s\n", a.Priority)
	fmt.Fprintf(&b, "Current stock: %d\n", a.CurrentStock)
	if a.Threshold > 0 {
		fmt.Fprintf(&b, "Threshold: %d\n", a.Threshold)
	}
	if a.RecommendedRestock != nil && *a.RecommendedRestock > 0 {
		fmt.Fprintf(&b, "Recommended restock: %d units\n", *a.RecommendedRestock)
	}
	if a.WarehouseID != nil {
		fmt.Fprintf(&b, "Warehouse: %s\n", a.WarehouseID)
	}
	b.WriteString("\nReview the alert in your seller dashboard.\n")
	return b.String()
}
