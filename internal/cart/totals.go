package cart

import (
	"github.com/shopspring/decimal"

	"github.com/vitrina-app/vitrina-backend/pkg/db/models"
)

// Totals holds the derived aggregates of a cart.
type Totals struct {
	TotalAmount decimal.Decimal `json:"totalAmount"`
	ItemsCount  int             `json:"itemsCount"`
}

// ComputeTotals sums line amounts and quantities. ItemsCount is the sum of
// quantities, not the distinct line count.
func ComputeTotals(items []models.CartItem) Totals {
	totals := Totals{TotalAmount: decimal.Zero}
	for _, item := range items {
		line := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		totals.TotalAmount = totals.TotalAmount.Add(line)
		totals.ItemsCount += item.Quantity
	}
	totals.TotalAmount = totals.TotalAmount.Round(2)
	return totals
}
