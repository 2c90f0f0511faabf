package forecast

import (
	"github.com/shopspring/decimal"
)

// WindowDays is the trailing sales window predictions are computed over
const WindowDays = 30

// NoStockOutHorizon is the sentinel stock-out ETA reported when sales
// velocity is zero and the current stock will never run out.
const NoStockOutHorizon = 999

const (
	baseConfidence     = 50
	confidencePerOrder = 2
	maxConfidence      = 95
)

// Prediction is a sales-velocity forecast for one product
type Prediction struct {
	SalesVelocity       decimal.Decimal `json:"sales_velocity"`
	PredictedStockOut   int             `json:"predicted_stock_out_days"`
	Confidence          int             `json:"confidence"`
	RecommendedQuantity int             `json:"recommended_quantity"`
}

// Predict derives a forecast from the trailing window's sales figures.
// Velocity is average units per day rounded to two decimal places.
// Confidence grows with the number of distinct orders observed, capped
// below certainty because a 30 day window is a thin sample.
func Predict(unitsSold int64, ordersCount int64, currentStock int) Prediction {
	velocity := decimal.NewFromInt(unitsSold).
		Div(decimal.NewFromInt(WindowDays)).
		Round(2)

	p := Prediction{
		SalesVelocity:     velocity,
		PredictedStockOut: NoStockOutHorizon,
	}

	if velocity.IsPositive() {
		days := decimal.NewFromInt(int64(currentStock)).Div(velocity).IntPart()
		if days < 0 {
			days = 0
		}
		p.PredictedStockOut = int(days)
		p.RecommendedQuantity = int(velocity.Mul(decimal.NewFromInt(WindowDays)).Ceil().IntPart())
	}

	confidence := baseConfidence + confidencePerOrder*int(ordersCount)
	if confidence > maxConfidence {
		confidence = maxConfidence
	}
	p.Confidence = confidence

	return p
}

// StockOutWithinWeek reports whether the forecast calls for a
// predictive warning: a real stock-out ETA inside the next seven days.
func (p Prediction) StockOutWithinWeek() bool {
	return p.PredictedStockOut >= 1 && p.PredictedStockOut <= 7
}
