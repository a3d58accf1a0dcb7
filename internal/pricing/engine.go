package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/vitrina-app/vitrina-backend/pkg/db/models"
	"github.com/vitrina-app/vitrina-backend/pkg/enums"
)

// Prices are stored with two decimal places, rounded half away from zero.
const priceScale = 2

var oneHundred = decimal.NewFromInt(100)

// Quote is the result of one price derivation.
type Quote struct {
	CalculatedPrice decimal.Decimal `json:"calculatedPrice"`
	FinalPrice      decimal.Decimal `json:"finalPrice"`
	ProfitAmount    decimal.Decimal `json:"profitAmount"`
	ProfitMargin    decimal.Decimal `json:"profitMargin"`
}

// Compute derives the sell price for a cost basis and markup. A manual
// override replaces the calculated price but never the calculation itself,
// so clearing the override later restores the derived value. Negative
// markup values are accepted; range checks belong to the request layer.
func Compute(cost decimal.Decimal, markupType enums.MarkupType, markupValue decimal.Decimal, manualOverride *decimal.Decimal) Quote {
	var calculated decimal.Decimal
	switch markupType {
	case enums.MarkupTypeFixedAmount:
		calculated = cost.Add(markupValue)
	default:
		calculated = cost.Mul(decimal.NewFromInt(1).Add(markupValue.Div(oneHundred)))
	}
	calculated = calculated.Round(priceScale)

	final := calculated
	if manualOverride != nil {
		final = manualOverride.Round(priceScale)
	}

	profit := final.Sub(cost).Round(priceScale)
	margin := decimal.Zero
	if !final.IsZero() {
		margin = profit.Div(final).Mul(oneHundred).Round(priceScale)
	}

	return Quote{
		CalculatedPrice: calculated,
		FinalPrice:      final,
		ProfitAmount:    profit,
		ProfitMargin:    margin,
	}
}

// Summary aggregates derivation stats across a price list.
type Summary struct {
	ItemCount       int             `json:"itemCount"`
	TotalProfit     decimal.Decimal `json:"totalProfit"`
	AverageMargin   decimal.Decimal `json:"averageMargin"`
	ManualOverrides int             `json:"manualOverrides"`
}

// Summarize folds stored items into list-level statistics. The average
// margin is an arithmetic mean and reports zero for an empty list.
func Summarize(items []models.PriceListItem) Summary {
	summary := Summary{TotalProfit: decimal.Zero, AverageMargin: decimal.Zero}
	if len(items) == 0 {
		return summary
	}

	marginSum := decimal.Zero
	for _, item := range items {
		profit := item.FinalPrice.Sub(item.CurrentCost)
		summary.TotalProfit = summary.TotalProfit.Add(profit)
		if !item.FinalPrice.IsZero() {
			marginSum = marginSum.Add(profit.Div(item.FinalPrice).Mul(oneHundred))
		}
		if item.IsManualOverride {
			summary.ManualOverrides++
		}
	}

	summary.ItemCount = len(items)
	summary.TotalProfit = summary.TotalProfit.Round(priceScale)
	summary.AverageMargin = marginSum.Div(decimal.NewFromInt(int64(len(items)))).Round(priceScale)
	return summary
}
