package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vitrina-app/vitrina-backend/pkg/db/models"
	"github.com/vitrina-app/vitrina-backend/pkg/enums"
)

// ExpiryWarningWindow is how far ahead a batch expiry date counts as "expiring".
const ExpiryWarningWindow = 7 * 24 * time.Hour

var oneHundred = decimal.NewFromInt(100)

// ClassifyStock derives the display status of a stock record.
// Rules are evaluated in priority order, first match wins. Negative
// quantities are not rejected here; upstream data is taken as-is.
func ClassifyStock(record models.StockRecord) enums.StockStatus {
	switch {
	case record.Quantity.IsZero():
		return enums.StockStatusZero
	case record.Quantity.LessThanOrEqual(record.MinStock):
		return enums.StockStatusLow
	case record.MaxStock != nil && record.Quantity.GreaterThan(*record.MaxStock):
		return enums.StockStatusOver
	default:
		return enums.StockStatusNormal
	}
}

// ClassifyBatch derives the lifecycle state of a batch at the given instant.
// Depletion takes precedence over expiry: a fully consumed batch reports
// depleted even when its expiry date has passed. The expiring window is
// inclusive, so a batch expiring exactly seven days out is already expiring.
func ClassifyBatch(batch models.StockBatch, now time.Time) enums.BatchStatus {
	switch {
	case batch.RemainingQuantity.LessThanOrEqual(decimal.Zero):
		return enums.BatchStatusDepleted
	case batch.ExpiryDate != nil && batch.ExpiryDate.Before(now):
		return enums.BatchStatusExpired
	case batch.ExpiryDate != nil && !batch.ExpiryDate.After(now.Add(ExpiryWarningWindow)):
		return enums.BatchStatusExpiring
	default:
		return enums.BatchStatusActive
	}
}

// DepletionPercent reports how much of a batch has been consumed, 0..100
// with two decimal places. A zero initial quantity yields 0.
func DepletionPercent(batch models.StockBatch) decimal.Decimal {
	if batch.InitialQuantity.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	consumed := batch.InitialQuantity.Sub(batch.RemainingQuantity)
	pct := consumed.Div(batch.InitialQuantity).Mul(oneHundred)
	if pct.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	if pct.GreaterThan(oneHundred) {
		return oneHundred
	}
	return pct.Round(2)
}
