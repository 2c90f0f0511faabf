package alert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Run("zero stock is out of stock regardless of thresholds", func(t *testing.T) {
		proposed := Classify(StockSnapshot{CurrentStock: 0, LowStockThreshold: 10, ReorderPoint: 30})

		require.NotNil(t, proposed)
		assert.Equal(t, TypeOutOfStock, proposed.Type)
		assert.Equal(t, PriorityCritical, proposed.Priority)
		assert.Equal(t, 10, proposed.Threshold)
		require.NotNil(t, proposed.RecommendedRestock)
		assert.Equal(t, 30, *proposed.RecommendedRestock)
	})

	t.Run("negative stock treated as out of stock", func(t *testing.T) {
		proposed := Classify(StockSnapshot{CurrentStock: -2, LowStockThreshold: 10, ReorderPoint: 30})

		require.NotNil(t, proposed)
		assert.Equal(t, TypeOutOfStock, proposed.Type)
	})

	t.Run("out of stock with no reorder point omits recommendation", func(t *testing.T) {
		proposed := Classify(StockSnapshot{CurrentStock: 0, LowStockThreshold: 10})

		require.NotNil(t, proposed)
		assert.Nil(t, proposed.RecommendedRestock)
	})

	t.Run("stock at or below half the threshold is high priority low stock", func(t *testing.T) {
		proposed := Classify(StockSnapshot{CurrentStock: 5, LowStockThreshold: 10, ReorderPoint: 30})

		require.NotNil(t, proposed)
		assert.Equal(t, TypeLowStock, proposed.Type)
		assert.Equal(t, PriorityHigh, proposed.Priority)
		require.NotNil(t, proposed.RecommendedRestock)
		assert.Equal(t, 25, *proposed.RecommendedRestock)
	})

	t.Run("stock above half the threshold is medium priority low stock", func(t *testing.T) {
		proposed := Classify(StockSnapshot{CurrentStock: 8, LowStockThreshold: 10, ReorderPoint: 30})

		require.NotNil(t, proposed)
		assert.Equal(t, TypeLowStock, proposed.Type)
		assert.Equal(t, PriorityMedium, proposed.Priority)
		assert.Equal(t, 22, *proposed.RecommendedRestock)
	})

	t.Run("low stock with reorder point below stock omits recommendation", func(t *testing.T) {
		proposed := Classify(StockSnapshot{CurrentStock: 8, LowStockThreshold: 10, ReorderPoint: 5})

		require.NotNil(t, proposed)
		assert.Equal(t, TypeLowStock, proposed.Type)
		assert.Nil(t, proposed.RecommendedRestock)
	})

	t.Run("stock between threshold and reorder point needs restock", func(t *testing.T) {
		proposed := Classify(StockSnapshot{CurrentStock: 20, LowStockThreshold: 10, ReorderPoint: 30})

		require.NotNil(t, proposed)
		assert.Equal(t, TypeRestockNeeded, proposed.Type)
		assert.Equal(t, PriorityMedium, proposed.Priority)
		assert.Equal(t, 30, proposed.Threshold)
		require.NotNil(t, proposed.RecommendedRestock)
		assert.Equal(t, 30, *proposed.RecommendedRestock)
	})

	t.Run("healthy stock proposes nothing", func(t *testing.T) {
		assert.Nil(t, Classify(StockSnapshot{CurrentStock: 100, LowStockThreshold: 10, ReorderPoint: 30}))
	})

	t.Run("unconfigured thresholds propose nothing for positive stock", func(t *testing.T) {
		assert.Nil(t, Classify(StockSnapshot{CurrentStock: 3}))
	})
}

func TestClassifyWarehouse(t *testing.T) {
	t.Run("zero stock is critical", func(t *testing.T) {
		proposed := ClassifyWarehouse(0)

		require.NotNil(t, proposed)
		assert.Equal(t, TypeOutOfStock, proposed.Type)
		assert.Equal(t, PriorityCritical, proposed.Priority)
	})

	t.Run("stock at fixed threshold is high priority low stock", func(t *testing.T) {
		proposed := ClassifyWarehouse(10)

		require.NotNil(t, proposed)
		assert.Equal(t, TypeLowStock, proposed.Type)
		assert.Equal(t, PriorityHigh, proposed.Priority)
		assert.Equal(t, WarehouseLowStockThreshold, proposed.Threshold)
	})

	t.Run("stock above fixed threshold proposes nothing", func(t *testing.T) {
		assert.Nil(t, ClassifyWarehouse(11))
	})
}
