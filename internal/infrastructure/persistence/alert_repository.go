package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/vendora/backend/internal/domain/alert"
	"github.com/vendora/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormAlertRepository implements alert.Repository using GORM
type GormAlertRepository struct {
	db *gorm.DB
}

// NewGormAlertRepository creates a new GormAlertRepository
func NewGormAlertRepository(db *gorm.DB) *GormAlertRepository {
	return &GormAlertRepository{db: db}
}

// Upsert stores a new alert or, when an active alert for the same
// seller, product and type already exists, refreshes that row instead.
// The partial unique index on (seller_id, product_id, type) WHERE
// status = 'active' backs the duplicate detection, so two concurrent
// sweeps cannot both insert.
func (r *GormAlertRepository) Upsert(ctx context.Context, a *alert.Alert) (bool, error) {
	err := r.db.WithContext(ctx).Create(a).Error
	if err == nil {
		return true, nil
	}
	if !isDuplicateKeyError(err) {
		return false, err
	}

	// Lost the race (or the condition persists): refresh the existing
	// active row with the new snapshot.
	existing, ferr := r.FindActive(ctx, a.SellerID, a.ProductID, a.Type)
	if ferr != nil {
		return false, ferr
	}
	if rerr := existing.Refresh(alert.ProposedAlert{
		Type:               a.Type,
		Priority:           a.Priority,
		CurrentStock:       a.CurrentStock,
		Threshold:          a.Threshold,
		RecommendedRestock: a.RecommendedRestock,
	}); rerr != nil {
		return false, rerr
	}
	if uerr := r.Update(ctx, existing); uerr != nil {
		return false, uerr
	}
	*a = *existing
	return false, nil
}

// Update persists alert changes with optimistic locking
func (r *GormAlertRepository) Update(ctx context.Context, a *alert.Alert) error {
	result := r.db.WithContext(ctx).
		Model(a).
		Where("id = ? AND version = ?", a.ID, a.Version-1).
		Updates(map[string]interface{}{
			"status":                   a.Status,
			"priority":                 a.Priority,
			"current_stock":            a.CurrentStock,
			"threshold":                a.Threshold,
			"recommended_restock":      a.RecommendedRestock,
			"acknowledged_at":          a.AcknowledgedAt,
			"acknowledged_by":          a.AcknowledgedBy,
			"resolved_at":              a.ResolvedAt,
			"action_taken":             a.ActionTaken,
			"notification_sent":        a.NotificationSent,
			"notification_sent_at":     a.NotificationSentAt,
			"notification_channels":    a.NotificationChannels,
			"auto_restock_triggered":   a.AutoRestockTriggered,
			"auto_restock_order_id":    a.AutoRestockOrderID,
			"sales_velocity":           a.SalesVelocity,
			"predicted_stock_out_days": a.PredictedStockOutDays,
			"confidence":               a.Confidence,
			"last_calculated":          a.LastCalculated,
			"version":                  a.Version,
			"updated_at":               a.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByID finds an alert by its ID
func (r *GormAlertRepository) FindByID(ctx context.Context, id uuid.UUID) (*alert.Alert, error) {
	var a alert.Alert
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindActive finds the active alert for a seller/product/type combination
func (r *GormAlertRepository) FindActive(ctx context.Context, sellerID, productID uuid.UUID, alertType alert.Type) (*alert.Alert, error) {
	var a alert.Alert
	if err := r.db.WithContext(ctx).
		Where("seller_id = ? AND product_id = ? AND type = ? AND status = ?",
			sellerID, productID, alertType, alert.StatusActive).
		First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// List returns a paginated page of a seller's alerts matching the filter
func (r *GormAlertRepository) List(ctx context.Context, sellerID uuid.UUID, filter alert.Filter) (*shared.Paginated[alert.Alert], error) {
	query := r.db.WithContext(ctx).
		Model(&alert.Alert{}).
		Where("seller_id = ?", sellerID)
	query = r.applyAlertFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	page := filter.Page
	pageSize := filter.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	orderBy := ValidateSortField(filter.OrderBy, AlertSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var items []alert.Alert
	if err := query.
		Order(orderBy + " " + orderDir).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&items).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(items, total, page, pageSize)
	return &result, nil
}

// CountBySeller returns the dashboard alert counts for a seller
func (r *GormAlertRepository) CountBySeller(ctx context.Context, sellerID uuid.UUID) (*alert.Counts, error) {
	var counts alert.Counts
	if err := r.db.WithContext(ctx).
		Model(&alert.Alert{}).
		Select(
			"COUNT(*) as total, "+
				"COUNT(*) FILTER (WHERE status = ?) as active, "+
				"COUNT(*) FILTER (WHERE status = ? AND priority = ?) as critical, "+
				"COUNT(*) FILTER (WHERE status = ? AND priority = ?) as high",
			alert.StatusActive,
			alert.StatusActive, alert.PriorityCritical,
			alert.StatusActive, alert.PriorityHigh,
		).
		Where("seller_id = ?", sellerID).
		Scan(&counts).Error; err != nil {
		return nil, err
	}

	var typeRows []struct {
		Type  alert.Type
		Count int64
	}
	if err := r.db.WithContext(ctx).
		Model(&alert.Alert{}).
		Select("type, COUNT(*) as count").
		Where("seller_id = ? AND status = ?", sellerID, alert.StatusActive).
		Group("type").
		Scan(&typeRows).Error; err != nil {
		return nil, err
	}
	counts.ByType = make(map[alert.Type]int64, len(typeRows))
	for _, row := range typeRows {
		counts.ByType[row.Type] = row.Count
	}

	return &counts, nil
}

func (r *GormAlertRepository) applyAlertFilter(query *gorm.DB, filter alert.Filter) *gorm.DB {
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	return query
}

// isDuplicateKeyError detects unique constraint violations across the
// gorm error translation and raw postgres/sqlite error strings.
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
