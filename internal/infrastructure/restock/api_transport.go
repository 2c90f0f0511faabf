package restock

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vendora/backend/internal/application/monitoring"
)

// maxResponseSize is the maximum allowed response size from a supplier API (1MB)
const maxResponseSize = 1 * 1024 * 1024

// defaultAPITimeout bounds a single dispatch call
const defaultAPITimeout = 15 * time.Second

// APITransport posts restock purchase requests to the supplier's
// configured HTTP endpoint.
type APITransport struct {
	httpClient *http.Client
}

// NewAPITransport creates a new APITransport
func NewAPITransport() *APITransport {
	return &APITransport{
		httpClient: &http.Client{Timeout: defaultAPITimeout},
	}
}

// NewAPITransportWithClient creates an APITransport with a custom client
func NewAPITransportWithClient(client *http.Client) *APITransport {
	return &APITransport{httpClient: client}
}

// apiRequest is the wire format posted to the supplier endpoint
type apiRequest struct {
	SellerID    string `json:"seller_id"`
	ProductID   string `json:"product_id"`
	ProductSKU  string `json:"product_sku"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

// apiResponse is the minimal shape expected back. OrderID is the
// supplier-side purchase order reference, when the supplier issues one.
type apiResponse struct {
	OrderID string `json:"order_id"`
}

// Dispatch posts the purchase request and parses the order reference
func (t *APITransport) Dispatch(ctx context.Context, req monitoring.RestockRequest) (*uuid.UUID, error) {
	if req.Supplier == nil || req.Supplier.APIEndpoint == "" {
		return nil, fmt.Errorf("restock: supplier has no API endpoint")
	}

	payload, err := json.Marshal(apiRequest{
		SellerID:    req.SellerID.String(),
		ProductID:   req.ProductID.String(),
		ProductSKU:  req.ProductSKU,
		ProductName: req.ProductName,
		Quantity:    req.Quantity,
	})
	if err != nil {
		return nil, fmt.Errorf("restock: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.Supplier.APIEndpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("restock: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("restock: call supplier API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("restock: read supplier response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("restock: supplier API returned status %d", resp.StatusCode)
	}

	if len(body) == 0 {
		return nil, nil
	}
	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		// accepted but unparseable reference; the dispatch still counts
		return nil, nil
	}
	if parsed.OrderID == "" {
		return nil, nil
	}
	orderID, err := uuid.Parse(parsed.OrderID)
	if err != nil {
		return nil, nil
	}
	return &orderID, nil
}

var _ monitoring.RestockTransport = (*APITransport)(nil)
