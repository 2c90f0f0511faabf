package alert

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendora/backend/internal/domain/shared"
)

func createTestAlert(t *testing.T) *Alert {
	t.Helper()
	recommended := 40
	a, err := New(uuid.New(), uuid.New(), nil, ProposedAlert{
		Type:               TypeLowStock,
		Priority:           PriorityHigh,
		CurrentStock:       4,
		Threshold:          10,
		RecommendedRestock: &recommended,
	})
	require.NoError(t, err)
	return a
}

func TestNew(t *testing.T) {
	sellerID := uuid.New()
	productID := uuid.New()

	t.Run("creates active alert with created event", func(t *testing.T) {
		a, err := New(sellerID, productID, nil, ProposedAlert{
			Type:         TypeOutOfStock,
			Priority:     PriorityCritical,
			CurrentStock: 0,
			Threshold:    10,
		})

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, a.ID)
		assert.Equal(t, sellerID, a.SellerID)
		assert.Equal(t, productID, a.ProductID)
		assert.Equal(t, StatusActive, a.Status)
		assert.False(t, a.NotificationSent)
		assert.False(t, a.AutoRestockTriggered)

		events := a.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeAlertCreated, events[0].EventType())
		assert.Equal(t, sellerID, events[0].SellerID())
	})

	t.Run("fails with nil seller ID", func(t *testing.T) {
		a, err := New(uuid.Nil, productID, nil, ProposedAlert{})
		require.Error(t, err)
		assert.Nil(t, a)
	})

	t.Run("fails with nil product ID", func(t *testing.T) {
		a, err := New(sellerID, uuid.Nil, nil, ProposedAlert{})
		require.Error(t, err)
		assert.Nil(t, a)
	})
}

func TestAlert_Acknowledge(t *testing.T) {
	t.Run("acknowledges active alert", func(t *testing.T) {
		a := createTestAlert(t)
		actorID := uuid.New()

		err := a.Acknowledge(actorID)

		require.NoError(t, err)
		assert.Equal(t, StatusAcknowledged, a.Status)
		require.NotNil(t, a.AcknowledgedAt)
		require.NotNil(t, a.AcknowledgedBy)
		assert.Equal(t, actorID, *a.AcknowledgedBy)
	})

	t.Run("rejects acknowledging twice", func(t *testing.T) {
		a := createTestAlert(t)
		require.NoError(t, a.Acknowledge(uuid.New()))

		err := a.Acknowledge(uuid.New())

		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("rejects acknowledging resolved alert", func(t *testing.T) {
		a := createTestAlert(t)
		require.NoError(t, a.Resolve("restocked manually"))

		err := a.Acknowledge(uuid.New())

		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestAlert_Resolve(t *testing.T) {
	t.Run("resolves active alert with action taken", func(t *testing.T) {
		a := createTestAlert(t)

		err := a.Resolve("ordered 50 units")

		require.NoError(t, err)
		assert.Equal(t, StatusResolved, a.Status)
		assert.NotNil(t, a.ResolvedAt)
		assert.Equal(t, "ordered 50 units", a.ActionTaken)
	})

	t.Run("resolves acknowledged alert", func(t *testing.T) {
		a := createTestAlert(t)
		require.NoError(t, a.Acknowledge(uuid.New()))

		err := a.Resolve("restocked")

		require.NoError(t, err)
		assert.Equal(t, StatusResolved, a.Status)
	})

	t.Run("rejects resolving dismissed alert", func(t *testing.T) {
		a := createTestAlert(t)
		require.NoError(t, a.Dismiss())

		err := a.Resolve("too late")

		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestAlert_Dismiss(t *testing.T) {
	t.Run("dismisses active alert", func(t *testing.T) {
		a := createTestAlert(t)

		err := a.Dismiss()

		require.NoError(t, err)
		assert.Equal(t, StatusDismissed, a.Status)
		assert.Empty(t, a.ActionTaken)
	})

	t.Run("dismisses acknowledged alert", func(t *testing.T) {
		a := createTestAlert(t)
		require.NoError(t, a.Acknowledge(uuid.New()))

		require.NoError(t, a.Dismiss())
		assert.Equal(t, StatusDismissed, a.Status)
	})

	t.Run("rejects dismissing resolved alert", func(t *testing.T) {
		a := createTestAlert(t)
		require.NoError(t, a.Resolve("done"))

		err := a.Dismiss()

		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestAlert_Refresh(t *testing.T) {
	t.Run("updates stock snapshot on active alert", func(t *testing.T) {
		a := createTestAlert(t)
		recommended := 47

		err := a.Refresh(ProposedAlert{
			Type:               TypeLowStock,
			Priority:           PriorityMedium,
			CurrentStock:       7,
			Threshold:          10,
			RecommendedRestock: &recommended,
		})

		require.NoError(t, err)
		assert.Equal(t, 7, a.CurrentStock)
		assert.Equal(t, PriorityMedium, a.Priority)
		require.NotNil(t, a.RecommendedRestock)
		assert.Equal(t, 47, *a.RecommendedRestock)
	})

	t.Run("rejects refreshing non-active alert", func(t *testing.T) {
		a := createTestAlert(t)
		require.NoError(t, a.Acknowledge(uuid.New()))

		err := a.Refresh(ProposedAlert{CurrentStock: 3})

		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestAlert_MarkNotified(t *testing.T) {
	t.Run("records first notification", func(t *testing.T) {
		a := createTestAlert(t)

		err := a.MarkNotified(ChannelEmail)

		require.NoError(t, err)
		assert.True(t, a.NotificationSent)
		assert.NotNil(t, a.NotificationSentAt)
		assert.True(t, a.NotificationChannels.Contains(ChannelEmail))
	})

	t.Run("rejects second notification", func(t *testing.T) {
		a := createTestAlert(t)
		require.NoError(t, a.MarkNotified(ChannelEmail))

		err := a.MarkNotified(ChannelEmail)

		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestAlert_MarkRestockTriggered(t *testing.T) {
	t.Run("records restock order once", func(t *testing.T) {
		a := createTestAlert(t)
		orderID := uuid.New()

		err := a.MarkRestockTriggered(&orderID)

		require.NoError(t, err)
		assert.True(t, a.AutoRestockTriggered)
		require.NotNil(t, a.AutoRestockOrderID)
		assert.Equal(t, orderID, *a.AutoRestockOrderID)
	})

	t.Run("rejects second trigger", func(t *testing.T) {
		a := createTestAlert(t)
		require.NoError(t, a.MarkRestockTriggered(nil))

		err := a.MarkRestockTriggered(nil)

		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestAlert_AttachPrediction(t *testing.T) {
	a := createTestAlert(t)

	a.AttachPrediction(decimal.NewFromFloat(2.50), 4, 80)

	require.NotNil(t, a.SalesVelocity)
	assert.Equal(t, "2.5", a.SalesVelocity.String())
	require.NotNil(t, a.PredictedStockOutDays)
	assert.Equal(t, 4, *a.PredictedStockOutDays)
	require.NotNil(t, a.Confidence)
	assert.Equal(t, 80, *a.Confidence)
	assert.NotNil(t, a.LastCalculated)
}

func TestAlert_RestockQuantity(t *testing.T) {
	t.Run("prefers recommended quantity", func(t *testing.T) {
		a := createTestAlert(t)
		assert.Equal(t, 40, a.RestockQuantity(20))
	})

	t.Run("falls back when no recommendation", func(t *testing.T) {
		a := createTestAlert(t)
		a.RecommendedRestock = nil
		assert.Equal(t, 20, a.RestockQuantity(20))
	})
}
