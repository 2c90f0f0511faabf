// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.opentelemetry.io/otel/metric"

	"github.com/vendora/backend/internal/domain/alert"
	"github.com/vendora/backend/internal/domain/partner"
)

// MonitoringMetrics tracks the inventory monitoring engine: alerts
// raised, sweep throughput, notification and restock dispatches, and a
// periodically collected gauge of open alerts per seller.
type MonitoringMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	alertsCreatedTotal       *Counter
	sweepsTotal              *Counter
	productsCheckedTotal     *Counter
	notificationsSentTotal   *Counter
	restockDispatchesTotal   *Counter
	predictionsComputedTotal *Counter

	// Histogram metrics
	sweepDuration *Histogram

	// Gauge metrics (point-in-time values)
	activeAlerts   *Gauge
	criticalAlerts *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	alertProvider AlertMetricsProvider
}

// SellerAlertCounts is one seller's open-alert totals for gauge collection
type SellerAlertCounts struct {
	SellerID uuid.UUID
	Active   int64
	Critical int64
}

// AlertMetricsProvider provides alert data for periodic metrics
// collection without coupling the telemetry layer to the alert store.
type AlertMetricsProvider interface {
	ActiveAlertCounts(ctx context.Context) ([]SellerAlertCounts, error)
}

// MonitoringMetricsConfig holds configuration for monitoring metrics.
type MonitoringMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	AlertProvider   AlertMetricsProvider
}

// NewMonitoringMetrics creates a new MonitoringMetrics instance.
func NewMonitoringMetrics(cfg MonitoringMetricsConfig) (*MonitoringMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	mm := &MonitoringMetrics{
		meter:         cfg.Meter,
		logger:        logger,
		stopChan:      make(chan struct{}),
		alertProvider: cfg.AlertProvider,
	}

	var err error

	mm.alertsCreatedTotal, err = NewCounter(
		cfg.Meter,
		"vendora_alerts_created_total",
		"Total number of stock alerts created",
		"{alerts}",
	)
	if err != nil {
		return nil, err
	}

	mm.sweepsTotal, err = NewCounter(
		cfg.Meter,
		"vendora_sweeps_total",
		"Total number of monitoring sweeps run",
		"{sweeps}",
	)
	if err != nil {
		return nil, err
	}

	mm.productsCheckedTotal, err = NewCounter(
		cfg.Meter,
		"vendora_products_checked_total",
		"Total number of product threshold checks",
		"{products}",
	)
	if err != nil {
		return nil, err
	}

	mm.notificationsSentTotal, err = NewCounter(
		cfg.Meter,
		"vendora_notifications_sent_total",
		"Total number of alert notifications sent",
		"{notifications}",
	)
	if err != nil {
		return nil, err
	}

	mm.restockDispatchesTotal, err = NewCounter(
		cfg.Meter,
		"vendora_restock_dispatches_total",
		"Total number of auto-restock dispatch attempts",
		"{dispatches}",
	)
	if err != nil {
		return nil, err
	}

	mm.predictionsComputedTotal, err = NewCounter(
		cfg.Meter,
		"vendora_predictions_computed_total",
		"Total number of stock-out predictions computed",
		"{predictions}",
	)
	if err != nil {
		return nil, err
	}

	mm.sweepDuration, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "vendora_sweep_duration_seconds",
		Description: "Duration of monitoring sweeps",
		Unit:        "s",
		Boundaries:  SweepDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	mm.activeAlerts, err = NewGauge(
		cfg.Meter,
		"vendora_active_alerts",
		"Current number of active stock alerts",
		"{alerts}",
	)
	if err != nil {
		return nil, err
	}

	mm.criticalAlerts, err = NewGauge(
		cfg.Meter,
		"vendora_critical_alerts",
		"Current number of open critical stock alerts",
		"{alerts}",
	)
	if err != nil {
		return nil, err
	}

	return mm, nil
}

// RecordAlertCreated records a newly created alert
func (mm *MonitoringMetrics) RecordAlertCreated(ctx context.Context, alertType alert.Type, priority alert.Priority) {
	mm.alertsCreatedTotal.Inc(ctx,
		AttrAlertType.String(string(alertType)),
		AttrAlertPriority.String(string(priority)),
	)
}

// RecordSweep records a completed sweep and its throughput
func (mm *MonitoringMetrics) RecordSweep(ctx context.Context, productsChecked, alertsCreated int) {
	mm.sweepsTotal.Inc(ctx)
	mm.productsCheckedTotal.Add(ctx, int64(productsChecked))
}

// RecordSweepDuration records how long a sweep took
func (mm *MonitoringMetrics) RecordSweepDuration(ctx context.Context, d time.Duration) {
	mm.sweepDuration.RecordDuration(ctx, d)
}

// RecordNotificationSent records an outbound alert notification
func (mm *MonitoringMetrics) RecordNotificationSent(ctx context.Context, channel alert.Channel) {
	mm.notificationsSentTotal.Inc(ctx,
		AttrChannel.String(string(channel)),
	)
}

// RecordRestockDispatch records an auto-restock dispatch attempt
func (mm *MonitoringMetrics) RecordRestockDispatch(ctx context.Context, method partner.RestockMethod, success bool) {
	status := "success"
	if !success {
		status = "failed"
	}
	mm.restockDispatchesTotal.Inc(ctx,
		AttrRestockMethod.String(string(method)),
		AttrStatus.String(status),
	)
}

// RecordPredictionComputed records a forecast computation
func (mm *MonitoringMetrics) RecordPredictionComputed(ctx context.Context) {
	mm.predictionsComputedTotal.Inc(ctx)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// StartPeriodicCollection starts periodic collection of gauge metrics.
// This is non-blocking - use Stop() to stop collection.
func (mm *MonitoringMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	mm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		go mm.runPeriodicCollection(ctx, interval)
	})
}

func (mm *MonitoringMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	mm.collectAlertGauges(ctx)

	for {
		select {
		case <-mm.stopChan:
			mm.logger.Info("Stopping periodic monitoring metrics collection")
			return
		case <-ctx.Done():
			mm.logger.Info("Context cancelled, stopping periodic monitoring metrics collection")
			return
		case <-ticker.C:
			mm.collectAlertGauges(ctx)
		}
	}
}

func (mm *MonitoringMetrics) collectAlertGauges(ctx context.Context) {
	if mm.alertProvider == nil {
		mm.logger.Debug("No alert provider configured, skipping alert gauge collection")
		return
	}

	counts, err := mm.alertProvider.ActiveAlertCounts(ctx)
	if err != nil {
		mm.logger.Error("Failed to collect alert counts", zap.Error(err))
		return
	}

	for _, c := range counts {
		mm.activeAlerts.Record(ctx, c.Active,
			AttrSellerID.String(c.SellerID.String()),
		)
		mm.criticalAlerts.Record(ctx, c.Critical,
			AttrSellerID.String(c.SellerID.String()),
		)
	}
}

// Stop stops the periodic collection.
func (mm *MonitoringMetrics) Stop() {
	mm.stopOnce.Do(func() {
		close(mm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewMonitoringMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
