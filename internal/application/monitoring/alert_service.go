package monitoring

import (
	"context"

	"github.com/google/uuid"
	"github.com/vendora/backend/internal/domain/alert"
	"github.com/vendora/backend/internal/domain/shared"
)

// AlertService handles seller-facing alert operations
type AlertService struct {
	alertRepo      alert.Repository
	eventPublisher shared.EventPublisher
}

// NewAlertService creates a new AlertService
func NewAlertService(alertRepo alert.Repository) *AlertService {
	return &AlertService{alertRepo: alertRepo}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *AlertService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *AlertService) publishDomainEvents(ctx context.Context, a *alert.Alert) {
	if s.eventPublisher == nil {
		return
	}
	events := a.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	a.ClearDomainEvents()
}

// findOwned loads an alert and verifies it belongs to the seller
func (s *AlertService) findOwned(ctx context.Context, sellerID, alertID uuid.UUID) (*alert.Alert, error) {
	a, err := s.alertRepo.FindByID(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if !a.OwnedBy(sellerID) {
		return nil, shared.ErrForbidden
	}
	return a, nil
}

// GetByID retrieves a single alert
func (s *AlertService) GetByID(ctx context.Context, sellerID, alertID uuid.UUID) (*AlertResponse, error) {
	a, err := s.findOwned(ctx, sellerID, alertID)
	if err != nil {
		return nil, err
	}
	return ToAlertResponse(a), nil
}

// List returns the seller's alerts matching the filter
func (s *AlertService) List(ctx context.Context, sellerID uuid.UUID, filter AlertListFilter) (*AlertListResponse, error) {
	domainFilter := alert.Filter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		},
		Status:    alert.Status(filter.Status),
		Type:      alert.Type(filter.Type),
		Priority:  alert.Priority(filter.Priority),
		ProductID: filter.ProductID,
	}

	page, err := s.alertRepo.List(ctx, sellerID, domainFilter)
	if err != nil {
		return nil, err
	}

	return &AlertListResponse{
		Items:      ToAlertResponses(page.Items),
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}

// Counts returns alert totals for the seller's dashboard
func (s *AlertService) Counts(ctx context.Context, sellerID uuid.UUID) (*alert.Counts, error) {
	return s.alertRepo.CountBySeller(ctx, sellerID)
}

// Acknowledge marks an active alert as seen by the acting user
func (s *AlertService) Acknowledge(ctx context.Context, sellerID, userID, alertID uuid.UUID) (*AlertResponse, error) {
	a, err := s.findOwned(ctx, sellerID, alertID)
	if err != nil {
		return nil, err
	}
	if err := a.Acknowledge(userID); err != nil {
		return nil, err
	}
	if err := s.alertRepo.Update(ctx, a); err != nil {
		return nil, err
	}
	return ToAlertResponse(a), nil
}

// Resolve closes an alert with a record of the action taken
func (s *AlertService) Resolve(ctx context.Context, sellerID, alertID uuid.UUID, req ResolveAlertRequest) (*AlertResponse, error) {
	a, err := s.findOwned(ctx, sellerID, alertID)
	if err != nil {
		return nil, err
	}
	if err := a.Resolve(req.ActionTaken); err != nil {
		return nil, err
	}
	if err := s.alertRepo.Update(ctx, a); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, a)
	return ToAlertResponse(a), nil
}

// Dismiss closes an alert without action
func (s *AlertService) Dismiss(ctx context.Context, sellerID, alertID uuid.UUID) (*AlertResponse, error) {
	a, err := s.findOwned(ctx, sellerID, alertID)
	if err != nil {
		return nil, err
	}
	if err := a.Dismiss(); err != nil {
		return nil, err
	}
	if err := s.alertRepo.Update(ctx, a); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, a)
	return ToAlertResponse(a), nil
}
