package alert

// StockSnapshot is the per-product state the classifier evaluates
type StockSnapshot struct {
	CurrentStock      int
	LowStockThreshold int
	ReorderPoint      int
}

// ProposedAlert is the outcome of classifying a stock snapshot. A nil
// result from Classify means no alert condition holds.
type ProposedAlert struct {
	Type               Type
	Priority           Priority
	CurrentStock       int
	Threshold          int
	RecommendedRestock *int
}

// Classify evaluates a stock snapshot against the product's configured
// thresholds. Conditions are checked in severity order and at most one
// alert is proposed: out of stock wins over low stock, which wins over
// the reorder point.
func Classify(s StockSnapshot) *ProposedAlert {
	switch {
	case s.CurrentStock <= 0:
		return &ProposedAlert{
			Type:               TypeOutOfStock,
			Priority:           PriorityCritical,
			CurrentStock:       s.CurrentStock,
			Threshold:          s.LowStockThreshold,
			RecommendedRestock: positiveOrNil(s.ReorderPoint),
		}
	case s.LowStockThreshold > 0 && s.CurrentStock <= s.LowStockThreshold:
		priority := PriorityMedium
		if s.CurrentStock <= s.LowStockThreshold/2 {
			priority = PriorityHigh
		}
		return &ProposedAlert{
			Type:               TypeLowStock,
			Priority:           priority,
			CurrentStock:       s.CurrentStock,
			Threshold:          s.LowStockThreshold,
			RecommendedRestock: positiveOrNil(s.ReorderPoint - s.CurrentStock),
		}
	case s.ReorderPoint > 0 && s.CurrentStock <= s.ReorderPoint:
		return &ProposedAlert{
			Type:               TypeRestockNeeded,
			Priority:           PriorityMedium,
			CurrentStock:       s.CurrentStock,
			Threshold:          s.ReorderPoint,
			RecommendedRestock: positiveOrNil(s.ReorderPoint),
		}
	default:
		return nil
	}
}

// WarehouseLowStockThreshold is the fixed threshold applied by the
// warehouse-level check, which ignores per-product configuration.
const WarehouseLowStockThreshold = 10

// ClassifyWarehouse evaluates a stock level during a warehouse check.
// Only the two severe conditions are reported at warehouse granularity.
func ClassifyWarehouse(currentStock int) *ProposedAlert {
	switch {
	case currentStock <= 0:
		return &ProposedAlert{
			Type:         TypeOutOfStock,
			Priority:     PriorityCritical,
			CurrentStock: currentStock,
			Threshold:    WarehouseLowStockThreshold,
		}
	case currentStock <= WarehouseLowStockThreshold:
		return &ProposedAlert{
			Type:         TypeLowStock,
			Priority:     PriorityHigh,
			CurrentStock: currentStock,
			Threshold:    WarehouseLowStockThreshold,
		}
	default:
		return nil
	}
}

func positiveOrNil(v int) *int {
	if v <= 0 {
		return nil
	}
	return &v
}
