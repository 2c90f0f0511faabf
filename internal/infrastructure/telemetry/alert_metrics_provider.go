// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"gorm.io/gorm"
)

// GormAlertMetricsProvider implements AlertMetricsProvider using GORM.
// It queries the stock_alerts table directly for aggregated gauges.
type GormAlertMetricsProvider struct {
	db *gorm.DB
}

// NewGormAlertMetricsProvider creates a new GormAlertMetricsProvider.
func NewGormAlertMetricsProvider(db *gorm.DB) *GormAlertMetricsProvider {
	return &GormAlertMetricsProvider{db: db}
}

// ActiveAlertCounts returns open-alert totals per seller.
func (p *GormAlertMetricsProvider) ActiveAlertCounts(ctx context.Context) ([]SellerAlertCounts, error) {
	var results []SellerAlertCounts
	err := p.db.WithContext(ctx).
		Table("stock_alerts").
		Select(`seller_id,
			COUNT(*) FILTER (WHERE status = 'active') AS active,
			COUNT(*) FILTER (WHERE status IN ('active', 'acknowledged') AND priority = 'critical') AS critical`).
		Group("seller_id").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
