package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vendora/backend/internal/application/monitoring"
)

// AlertHandler handles stock alert API endpoints
type AlertHandler struct {
	BaseHandler
	alertService   *monitoring.AlertService
	restockService *monitoring.RestockService
}

// NewAlertHandler creates a new AlertHandler
func NewAlertHandler(alertService *monitoring.AlertService, restockService *monitoring.RestockService) *AlertHandler {
	return &AlertHandler{
		alertService:   alertService,
		restockService: restockService,
	}
}

// List godoc
// @Summary      List stock alerts
// @Description  List the seller's stock alerts with optional status/type/priority filters
// @Tags         alerts
// @Produce      json
// @Param        status query string false "Filter by status" Enums(active, acknowledged, resolved, dismissed)
// @Param        type query string false "Filter by alert type" Enums(low_stock, out_of_stock, overstock, restock_needed, expiring_soon)
// @Param        priority query string false "Filter by priority" Enums(low, medium, high, critical)
// @Param        product_id query string false "Filter by product ID"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=monitoring.AlertListResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /alerts [get]
func (h *AlertHandler) List(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.BadRequest(c, "Invalid seller ID")
		return
	}

	var filter monitoring.AlertListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid filter parameters")
		return
	}

	result, err := h.alertService.List(c.Request.Context(), sellerID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Counts godoc
// @Summary      Get alert counts
// @Description  Get the seller's open alert counts grouped by status and priority
// @Tags         alerts
// @Produce      json
// @Success      200 {object} dto.Response{data=alert.Counts}
// @Security     BearerAuth
// @Router       /alerts/counts [get]
func (h *AlertHandler) Counts(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.BadRequest(c, "Invalid seller ID")
		return
	}

	counts, err := h.alertService.Counts(c.Request.Context(), sellerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, counts)
}

// GetByID godoc
// @Summary      Get a stock alert
// @Description  Get a single stock alert by ID
// @Tags         alerts
// @Produce      json
// @Param        id path string true "Alert ID"
// @Success      200 {object} dto.Response{data=monitoring.AlertResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /alerts/{id} [get]
func (h *AlertHandler) GetByID(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.BadRequest(c, "Invalid seller ID")
		return
	}

	alertID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid alert ID format")
		return
	}

	result, err := h.alertService.GetByID(c.Request.Context(), sellerID, alertID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Acknowledge godoc
// @Summary      Acknowledge an alert
// @Description  Mark an active alert as acknowledged by the current user
// @Tags         alerts
// @Produce      json
// @Param        id path string true "Alert ID"
// @Success      200 {object} dto.Response{data=monitoring.AlertResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /alerts/{id}/acknowledge [post]
func (h *AlertHandler) Acknowledge(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.BadRequest(c, "Invalid seller ID")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	alertID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid alert ID format")
		return
	}

	result, err := h.alertService.Acknowledge(c.Request.Context(), sellerID, userID, alertID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Resolve godoc
// @Summary      Resolve an alert
// @Description  Resolve an alert, recording the action that was taken
// @Tags         alerts
// @Accept       json
// @Produce      json
// @Param        id path string true "Alert ID"
// @Param        request body monitoring.ResolveAlertRequest true "Resolution details"
// @Success      200 {object} dto.Response{data=monitoring.AlertResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /alerts/{id}/resolve [post]
func (h *AlertHandler) Resolve(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.BadRequest(c, "Invalid seller ID")
		return
	}

	alertID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid alert ID format")
		return
	}

	var req monitoring.ResolveAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Action taken is required")
		return
	}

	result, err := h.alertService.Resolve(c.Request.Context(), sellerID, alertID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Dismiss godoc
// @Summary      Dismiss an alert
// @Description  Dismiss an alert without taking action
// @Tags         alerts
// @Produce      json
// @Param        id path string true "Alert ID"
// @Success      200 {object} dto.Response{data=monitoring.AlertResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /alerts/{id}/dismiss [post]
func (h *AlertHandler) Dismiss(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.BadRequest(c, "Invalid seller ID")
		return
	}

	alertID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid alert ID format")
		return
	}

	result, err := h.alertService.Dismiss(c.Request.Context(), sellerID, alertID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Restock godoc
// @Summary      Trigger restock for an alert
// @Description  Dispatch a restock request to the product's supplier for an open alert
// @Tags         alerts
// @Produce      json
// @Param        id path string true "Alert ID"
// @Success      200 {object} dto.Response{data=monitoring.RestockResponse}
// @Success      204 "restock skipped (already dispatched or no supplier)"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /alerts/{id}/restock [post]
func (h *AlertHandler) Restock(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.BadRequest(c, "Invalid seller ID")
		return
	}

	alertID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid alert ID format")
		return
	}

	result, err := h.restockService.Trigger(c.Request.Context(), sellerID, alertID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	if result == nil {
		// Already triggered, or no auto-restock supplier configured.
		h.NoContent(c)
		return
	}

	h.Success(c, result)
}
