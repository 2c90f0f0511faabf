package monitoring

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vendora/backend/internal/domain/alert"
	"github.com/vendora/backend/internal/domain/forecast"
)

// AlertResponse represents a stock alert in API responses
type AlertResponse struct {
	ID                    uuid.UUID        `json:"id"`
	SellerID              uuid.UUID        `json:"seller_id"`
	ProductID             uuid.UUID        `json:"product_id"`
	WarehouseID           *uuid.UUID       `json:"warehouse_id,omitempty"`
	Type                  alert.Type       `json:"type"`
	Priority              alert.Priority   `json:"priority"`
	Status                alert.Status     `json:"status"`
	CurrentStock          int              `json:"current_stock"`
	Threshold             int              `json:"threshold"`
	RecommendedRestock    *int             `json:"recommended_restock,omitempty"`
	AcknowledgedAt        *time.Time       `json:"acknowledged_at,omitempty"`
	AcknowledgedBy        *uuid.UUID       `json:"acknowledged_by,omitempty"`
	ResolvedAt            *time.Time       `json:"resolved_at,omitempty"`
	ActionTaken           string           `json:"action_taken,omitempty"`
	NotificationSent      bool             `json:"notification_sent"`
	NotificationSentAt    *time.Time       `json:"notification_sent_at,omitempty"`
	NotificationChannels  alert.Channels   `json:"notification_channels,omitempty"`
	AutoRestockTriggered  bool             `json:"auto_restock_triggered"`
	AutoRestockOrderID    *uuid.UUID       `json:"auto_restock_order_id,omitempty"`
	SalesVelocity         *decimal.Decimal `json:"sales_velocity,omitempty"`
	PredictedStockOutDays *int             `json:"predicted_stock_out_days,omitempty"`
	Confidence            *int             `json:"confidence,omitempty"`
	LastCalculated        *time.Time       `json:"last_calculated,omitempty"`
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`
	Version               int              `json:"version"`
}

// ToAlertResponse converts an alert aggregate to its API representation
func ToAlertResponse(a *alert.Alert) *AlertResponse {
	return &AlertResponse{
		ID:                    a.ID,
		SellerID:              a.SellerID,
		ProductID:             a.ProductID,
		WarehouseID:           a.WarehouseID,
		Type:                  a.Type,
		Priority:              a.Priority,
		Status:                a.Status,
		CurrentStock:          a.CurrentStock,
		Threshold:             a.Threshold,
		RecommendedRestock:    a.RecommendedRestock,
		AcknowledgedAt:        a.AcknowledgedAt,
		AcknowledgedBy:        a.AcknowledgedBy,
		ResolvedAt:            a.ResolvedAt,
		ActionTaken:           a.ActionTaken,
		NotificationSent:      a.NotificationSent,
		NotificationSentAt:    a.NotificationSentAt,
		NotificationChannels:  a.NotificationChannels,
		AutoRestockTriggered:  a.AutoRestockTriggered,
		AutoRestockOrderID:    a.AutoRestockOrderID,
		SalesVelocity:         a.SalesVelocity,
		PredictedStockOutDays: a.PredictedStockOutDays,
		Confidence:            a.Confidence,
		LastCalculated:        a.LastCalculated,
		CreatedAt:             a.CreatedAt,
		UpdatedAt:             a.UpdatedAt,
		Version:               a.Version,
	}
}

// ToAlertResponses converts a page of alerts
func ToAlertResponses(alerts []alert.Alert) []AlertResponse {
	responses := make([]AlertResponse, len(alerts))
	for i := range alerts {
		responses[i] = *ToAlertResponse(&alerts[i])
	}
	return responses
}

// AlertListFilter represents filter options for the alert list
type AlertListFilter struct {
	Status    string     `form:"status" binding:"omitempty,oneof=active acknowledged resolved dismissed"`
	Type      string     `form:"type" binding:"omitempty,oneof=low_stock out_of_stock overstock restock_needed expiring_soon"`
	Priority  string     `form:"priority" binding:"omitempty,oneof=low medium high critical"`
	ProductID *uuid.UUID `form:"product_id"`
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string     `form:"order_by"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// AlertListResponse is a page of alerts
type AlertListResponse struct {
	Items      []AlertResponse `json:"items"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

// ResolveAlertRequest records what was done about the alert
type ResolveAlertRequest struct {
	ActionTaken string `json:"action_taken" binding:"required,min=1,max=500"`
}

// CheckResultResponse reports the outcome of a single product check
type CheckResultResponse struct {
	ProductID    uuid.UUID      `json:"product_id"`
	Checked      bool           `json:"checked"`
	AlertCreated bool           `json:"alert_created"`
	Alert        *AlertResponse `json:"alert,omitempty"`
}

// SweepResultResponse summarizes a monitoring sweep
type SweepResultResponse struct {
	ProductsChecked int   `json:"products_checked"`
	AlertsCreated   int   `json:"alerts_created"`
	AlertsRefreshed int   `json:"alerts_refreshed"`
	Failures        int   `json:"failures"`
	DurationMS      int64 `json:"duration_ms"`
}

// PredictionResponse is an on-demand forecast for one product
type PredictionResponse struct {
	ProductID           uuid.UUID       `json:"product_id"`
	CurrentStock        int             `json:"current_stock"`
	UnitsSold           int64           `json:"units_sold"`
	OrdersCount         int64           `json:"orders_count"`
	WindowDays          int             `json:"window_days"`
	SalesVelocity       decimal.Decimal `json:"sales_velocity"`
	PredictedStockOut   int             `json:"predicted_stock_out_days"`
	Confidence          int             `json:"confidence"`
	RecommendedQuantity int             `json:"recommended_quantity"`
	CalculatedAt        time.Time       `json:"calculated_at"`
}

// ToPredictionResponse builds the API representation of a forecast
func ToPredictionResponse(productID uuid.UUID, currentStock int, unitsSold, ordersCount int64, p forecast.Prediction) *PredictionResponse {
	return &PredictionResponse{
		ProductID:           productID,
		CurrentStock:        currentStock,
		UnitsSold:           unitsSold,
		OrdersCount:         ordersCount,
		WindowDays:          forecast.WindowDays,
		SalesVelocity:       p.SalesVelocity,
		PredictedStockOut:   p.PredictedStockOut,
		Confidence:          p.Confidence,
		RecommendedQuantity: p.RecommendedQuantity,
		CalculatedAt:        time.Now(),
	}
}

// RestockResponse reports the outcome of an auto-restock dispatch
type RestockResponse struct {
	AlertID      uuid.UUID  `json:"alert_id"`
	ProductID    uuid.UUID  `json:"product_id"`
	SupplierID   uuid.UUID  `json:"supplier_id"`
	SupplierName string     `json:"supplier_name"`
	Method       string     `json:"method"`
	Quantity     int        `json:"quantity"`
	OrderID      *uuid.UUID `json:"order_id,omitempty"`
}
