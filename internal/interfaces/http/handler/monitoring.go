package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vendora/backend/internal/application/monitoring"
)

// SweepSchedulerStatus exposes the running state of the background sweep
type SweepSchedulerStatus interface {
	IsRunning() bool
}

// MonitoringHandler handles inventory monitoring API endpoints
type MonitoringHandler struct {
	BaseHandler
	sweepService      *monitoring.SweepService
	predictionService *monitoring.PredictionService
	scheduler         SweepSchedulerStatus
	sweepInterval     time.Duration
}

// NewMonitoringHandler creates a new MonitoringHandler
func NewMonitoringHandler(sweepService *monitoring.SweepService, predictionService *monitoring.PredictionService) *MonitoringHandler {
	return &MonitoringHandler{
		sweepService:      sweepService,
		predictionService: predictionService,
	}
}

// SetScheduler wires the background sweep scheduler for status reporting
func (h *MonitoringHandler) SetScheduler(scheduler SweepSchedulerStatus, interval time.Duration) {
	h.scheduler = scheduler
	h.sweepInterval = interval
}

// CheckProduct godoc
// @Summary      Check one product
// @Description  Evaluate a single product's stock against its thresholds, creating or refreshing an alert as needed
// @Tags         monitoring
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} dto.Response{data=monitoring.CheckResultResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /monitoring/products/{id}/check [post]
func (h *MonitoringHandler) CheckProduct(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.BadRequest(c, "Invalid seller ID")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	result, err := h.sweepService.CheckProduct(c.Request.Context(), sellerID, productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Sweep godoc
// @Summary      Sweep all monitored products
// @Description  Run a threshold check over every monitored product of the seller
// @Tags         monitoring
// @Produce      json
// @Success      200 {object} dto.Response{data=monitoring.SweepResultResponse}
// @Security     BearerAuth
// @Router       /monitoring/sweep [post]
func (h *MonitoringHandler) Sweep(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.BadRequest(c, "Invalid seller ID")
		return
	}

	result, err := h.sweepService.CheckSeller(c.Request.Context(), sellerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// CheckWarehouse godoc
// @Summary      Check a warehouse
// @Description  Evaluate every product stored in the warehouse against a fixed threshold
// @Tags         monitoring
// @Produce      json
// @Param        id path string true "Warehouse ID"
// @Success      200 {object} dto.Response{data=monitoring.SweepResultResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /monitoring/warehouses/{id}/check [post]
func (h *MonitoringHandler) CheckWarehouse(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.BadRequest(c, "Invalid seller ID")
		return
	}

	warehouseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	result, err := h.sweepService.CheckWarehouse(c.Request.Context(), sellerID, warehouseID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// PredictProduct godoc
// @Summary      Predict product stock-out
// @Description  Compute sales velocity and days-until-stock-out for a product and attach the snapshot to its open alerts
// @Tags         monitoring
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} dto.Response{data=monitoring.PredictionResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /monitoring/products/{id}/prediction [post]
func (h *MonitoringHandler) PredictProduct(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.BadRequest(c, "Invalid seller ID")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	result, err := h.predictionService.PredictProduct(c.Request.Context(), sellerID, productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// SchedulerStatus godoc
// @Summary      Sweep scheduler status
// @Description  Report whether the background monitoring sweep is enabled and running
// @Tags         monitoring
// @Produce      json
// @Success      200 {object} dto.Response{data=SchedulerStatusData}
// @Security     BearerAuth
// @Router       /monitoring/scheduler/status [get]
func (h *MonitoringHandler) SchedulerStatus(c *gin.Context) {
	status := SchedulerStatusData{}
	if h.scheduler != nil {
		status.Enabled = true
		status.Running = h.scheduler.IsRunning()
		status.Interval = h.sweepInterval.String()
	}
	h.Success(c, status)
}
