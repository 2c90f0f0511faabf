package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	sellerID := uuid.New()

	t.Run("creates product with uppercased SKU", func(t *testing.T) {
		p, err := NewProduct(sellerID, "sku-001", "Wireless Mouse")

		require.NoError(t, err)
		assert.Equal(t, "SKU-001", p.SKU)
		assert.Equal(t, sellerID, p.SellerID)
		assert.True(t, p.TrackInventory)
		assert.Equal(t, ProductStatusActive, p.Status)
	})

	t.Run("fails with empty SKU", func(t *testing.T) {
		p, err := NewProduct(sellerID, "  ", "Wireless Mouse")

		require.Error(t, err)
		assert.Nil(t, p)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		p, err := NewProduct(sellerID, "SKU-001", "")

		require.Error(t, err)
		assert.Nil(t, p)
	})
}

func TestProduct_SetThresholds(t *testing.T) {
	p, err := NewProduct(uuid.New(), "SKU-001", "Wireless Mouse")
	require.NoError(t, err)

	t.Run("sets thresholds", func(t *testing.T) {
		require.NoError(t, p.SetThresholds(10, 30))
		assert.Equal(t, 10, p.LowStockThreshold)
		assert.Equal(t, 30, p.ReorderPoint)
	})

	t.Run("rejects negative thresholds", func(t *testing.T) {
		assert.Error(t, p.SetThresholds(-1, 30))
		assert.Error(t, p.SetThresholds(10, -5))
	})
}

func TestProduct_AdjustStock(t *testing.T) {
	p, err := NewProduct(uuid.New(), "SKU-001", "Wireless Mouse")
	require.NoError(t, err)

	p.AdjustStock(15)
	assert.Equal(t, 15, p.CurrentStock)

	p.AdjustStock(-20)
	assert.Equal(t, 0, p.CurrentStock)
}

func TestProduct_IsMonitored(t *testing.T) {
	p, err := NewProduct(uuid.New(), "SKU-001", "Wireless Mouse")
	require.NoError(t, err)

	assert.True(t, p.IsMonitored())

	p.TrackInventory = false
	assert.False(t, p.IsMonitored())

	p.TrackInventory = true
	p.Status = ProductStatusDiscontinued
	assert.False(t, p.IsMonitored())
}

func TestProduct_StockSnapshot(t *testing.T) {
	p, err := NewProduct(uuid.New(), "SKU-001", "Wireless Mouse")
	require.NoError(t, err)
	require.NoError(t, p.SetThresholds(10, 30))
	p.AdjustStock(7)

	s := p.StockSnapshot()

	assert.Equal(t, 7, s.CurrentStock)
	assert.Equal(t, 10, s.LowStockThreshold)
	assert.Equal(t, 30, s.ReorderPoint)
}
