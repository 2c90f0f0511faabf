package monitoring

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendora/backend/internal/domain/alert"
	"github.com/vendora/backend/internal/domain/shared"
)

func storedAlert(t *testing.T, repo *mockAlertRepository, sellerID uuid.UUID, alertType alert.Type) *alert.Alert {
	t.Helper()
	a, err := alert.New(sellerID, uuid.New(), nil, alert.ProposedAlert{
		Type:         alertType,
		Priority:     alert.PriorityHigh,
		CurrentStock: 3,
		Threshold:    10,
	})
	require.NoError(t, err)
	a.ClearDomainEvents()
	created, err := repo.Upsert(context.Background(), a)
	require.NoError(t, err)
	require.True(t, created)
	return a
}

func TestAlertService_GetByID(t *testing.T) {
	ctx := context.Background()
	sellerID := uuid.New()
	repo := newMockAlertRepository()
	svc := NewAlertService(repo)
	a := storedAlert(t, repo, sellerID, alert.TypeLowStock)

	t.Run("returns owned alert", func(t *testing.T) {
		resp, err := svc.GetByID(ctx, sellerID, a.ID)
		require.NoError(t, err)
		assert.Equal(t, a.ID, resp.ID)
		assert.Equal(t, alert.StatusActive, resp.Status)
	})

	t.Run("hides other sellers' alerts", func(t *testing.T) {
		_, err := svc.GetByID(ctx, uuid.New(), a.ID)
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("unknown alert", func(t *testing.T) {
		_, err := svc.GetByID(ctx, sellerID, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestAlertService_List(t *testing.T) {
	ctx := context.Background()
	sellerID := uuid.New()
	repo := newMockAlertRepository()
	svc := NewAlertService(repo)

	storedAlert(t, repo, sellerID, alert.TypeLowStock)
	storedAlert(t, repo, sellerID, alert.TypeOutOfStock)
	storedAlert(t, repo, uuid.New(), alert.TypeLowStock)

	t.Run("lists only the seller's alerts", func(t *testing.T) {
		resp, err := svc.List(ctx, sellerID, AlertListFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.Total)
		assert.Len(t, resp.Items, 2)
	})

	t.Run("filters by type", func(t *testing.T) {
		resp, err := svc.List(ctx, sellerID, AlertListFilter{Type: "out_of_stock"})
		require.NoError(t, err)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, alert.TypeOutOfStock, resp.Items[0].Type)
	})
}

func TestAlertService_Counts(t *testing.T) {
	ctx := context.Background()
	sellerID := uuid.New()
	repo := newMockAlertRepository()
	svc := NewAlertService(repo)

	a := storedAlert(t, repo, sellerID, alert.TypeLowStock)
	b := storedAlert(t, repo, sellerID, alert.TypeOutOfStock)
	b.Priority = alert.PriorityCritical
	require.NoError(t, a.Resolve("restocked manually"))

	counts, err := svc.Counts(ctx, sellerID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts.Total)
	assert.Equal(t, int64(1), counts.Active)
	assert.Equal(t, int64(1), counts.Critical)
}

func TestAlertService_Acknowledge(t *testing.T) {
	ctx := context.Background()
	sellerID := uuid.New()
	userID := uuid.New()

	t.Run("acknowledges active alert", func(t *testing.T) {
		repo := newMockAlertRepository()
		svc := NewAlertService(repo)
		a := storedAlert(t, repo, sellerID, alert.TypeLowStock)

		resp, err := svc.Acknowledge(ctx, sellerID, userID, a.ID)
		require.NoError(t, err)
		assert.Equal(t, alert.StatusAcknowledged, resp.Status)
		require.NotNil(t, resp.AcknowledgedBy)
		assert.Equal(t, userID, *resp.AcknowledgedBy)
		assert.NotNil(t, resp.AcknowledgedAt)
	})

	t.Run("rejects double acknowledge", func(t *testing.T) {
		repo := newMockAlertRepository()
		svc := NewAlertService(repo)
		a := storedAlert(t, repo, sellerID, alert.TypeLowStock)

		_, err := svc.Acknowledge(ctx, sellerID, userID, a.ID)
		require.NoError(t, err)
		_, err = svc.Acknowledge(ctx, sellerID, userID, a.ID)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("rejects other seller", func(t *testing.T) {
		repo := newMockAlertRepository()
		svc := NewAlertService(repo)
		a := storedAlert(t, repo, sellerID, alert.TypeLowStock)

		_, err := svc.Acknowledge(ctx, uuid.New(), userID, a.ID)
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestAlertService_Resolve(t *testing.T) {
	ctx := context.Background()
	sellerID := uuid.New()

	t.Run("resolves with action and publishes closed event", func(t *testing.T) {
		repo := newMockAlertRepository()
		publisher := &mockEventPublisher{}
		svc := NewAlertService(repo)
		svc.SetEventPublisher(publisher)
		a := storedAlert(t, repo, sellerID, alert.TypeLowStock)

		resp, err := svc.Resolve(ctx, sellerID, a.ID, ResolveAlertRequest{ActionTaken: "ordered 50 units"})
		require.NoError(t, err)
		assert.Equal(t, alert.StatusResolved, resp.Status)
		assert.Equal(t, "ordered 50 units", resp.ActionTaken)
		assert.NotNil(t, resp.ResolvedAt)
		assert.Equal(t, []string{alert.EventTypeAlertClosed}, publisher.eventTypes())
	})

	t.Run("resolves acknowledged alert", func(t *testing.T) {
		repo := newMockAlertRepository()
		svc := NewAlertService(repo)
		a := storedAlert(t, repo, sellerID, alert.TypeLowStock)

		_, err := svc.Acknowledge(ctx, sellerID, uuid.New(), a.ID)
		require.NoError(t, err)
		resp, err := svc.Resolve(ctx, sellerID, a.ID, ResolveAlertRequest{ActionTaken: "restocked"})
		require.NoError(t, err)
		assert.Equal(t, alert.StatusResolved, resp.Status)
	})

	t.Run("resolved is terminal", func(t *testing.T) {
		repo := newMockAlertRepository()
		svc := NewAlertService(repo)
		a := storedAlert(t, repo, sellerID, alert.TypeLowStock)

		_, err := svc.Resolve(ctx, sellerID, a.ID, ResolveAlertRequest{ActionTaken: "restocked"})
		require.NoError(t, err)
		_, err = svc.Dismiss(ctx, sellerID, a.ID)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestAlertService_Dismiss(t *testing.T) {
	ctx := context.Background()
	sellerID := uuid.New()
	repo := newMockAlertRepository()
	publisher := &mockEventPublisher{}
	svc := NewAlertService(repo)
	svc.SetEventPublisher(publisher)
	a := storedAlert(t, repo, sellerID, alert.TypeOverstock)

	resp, err := svc.Dismiss(ctx, sellerID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, alert.StatusDismissed, resp.Status)
	assert.Empty(t, resp.ActionTaken)
	assert.Equal(t, []string{alert.EventTypeAlertClosed}, publisher.eventTypes())
}
