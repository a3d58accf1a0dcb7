package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vitrina-app/vitrina-backend/pkg/db/models"
	"github.com/vitrina-app/vitrina-backend/pkg/enums"
)

func dec(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(value string) *decimal.Decimal {
	d := dec(value)
	return &d
}

func TestComputePercentageMarkup(t *testing.T) {
	quote := Compute(dec("100"), enums.MarkupTypePercentage, dec("25"), nil)

	if !quote.CalculatedPrice.Equal(dec("125")) {
		t.Fatalf("expected calculated 125, got %s", quote.CalculatedPrice)
	}
	if !quote.FinalPrice.Equal(dec("125")) {
		t.Fatalf("expected final 125, got %s", quote.FinalPrice)
	}
	if !quote.ProfitAmount.Equal(dec("25")) {
		t.Fatalf("expected profit 25, got %s", quote.ProfitAmount)
	}
	if !quote.ProfitMargin.Equal(dec("20")) {
		t.Fatalf("expected margin 20, got %s", quote.ProfitMargin)
	}
}

func TestComputeFixedMarkupWithOverride(t *testing.T) {
	quote := Compute(dec("100"), enums.MarkupTypeFixedAmount, dec("50"), decPtr("130"))

	if !quote.CalculatedPrice.Equal(dec("150")) {
		t.Fatalf("expected calculated 150, got %s", quote.CalculatedPrice)
	}
	if !quote.FinalPrice.Equal(dec("130")) {
		t.Fatalf("expected final 130, got %s", quote.FinalPrice)
	}
	if !quote.ProfitAmount.Equal(dec("30")) {
		t.Fatalf("expected profit 30, got %s", quote.ProfitAmount)
	}
}

func TestComputeOverrideIsIdempotent(t *testing.T) {
	first := Compute(dec("37.42"), enums.MarkupTypePercentage, dec("17.5"), nil)
	second := Compute(dec("37.42"), enums.MarkupTypePercentage, dec("17.5"), &first.FinalPrice)

	if !second.FinalPrice.Equal(first.FinalPrice) {
		t.Fatalf("expected stable final price, got %s then %s", first.FinalPrice, second.FinalPrice)
	}
}

func TestComputeRoundsHalfAwayFromZero(t *testing.T) {
	// 10.01 * 1.125 = 11.26125, rounds to 11.26
	quote := Compute(dec("10.01"), enums.MarkupTypePercentage, dec("12.5"), nil)
	if !quote.CalculatedPrice.Equal(dec("11.26")) {
		t.Fatalf("expected 11.26, got %s", quote.CalculatedPrice)
	}

	// 10.03 * 1.025 = 10.28075, rounds to 10.28
	quote = Compute(dec("10.03"), enums.MarkupTypePercentage, dec("2.5"), nil)
	if !quote.CalculatedPrice.Equal(dec("10.28")) {
		t.Fatalf("expected 10.28, got %s", quote.CalculatedPrice)
	}

	// half cases round away from zero: 2.005 -> 2.01
	quote = Compute(dec("2"), enums.MarkupTypePercentage, dec("0.25"), nil)
	if !quote.CalculatedPrice.Equal(dec("2.01")) {
		t.Fatalf("expected 2.01, got %s", quote.CalculatedPrice)
	}
}

func TestComputeZeroFinalPriceYieldsZeroMargin(t *testing.T) {
	quote := Compute(dec("0"), enums.MarkupTypePercentage, dec("0"), nil)
	if !quote.ProfitMargin.IsZero() {
		t.Fatalf("expected zero margin, got %s", quote.ProfitMargin)
	}
}

func TestComputeNegativeMarkupIsAccepted(t *testing.T) {
	quote := Compute(dec("100"), enums.MarkupTypeFixedAmount, dec("-20"), nil)
	if !quote.CalculatedPrice.Equal(dec("80")) {
		t.Fatalf("expected 80, got %s", quote.CalculatedPrice)
	}
	if !quote.ProfitAmount.Equal(dec("-20")) {
		t.Fatalf("expected -20 profit, got %s", quote.ProfitAmount)
	}
}

func TestSummarizeEmptyList(t *testing.T) {
	summary := Summarize(nil)
	if summary.ItemCount != 0 {
		t.Fatalf("expected 0 items, got %d", summary.ItemCount)
	}
	if !summary.AverageMargin.IsZero() || !summary.TotalProfit.IsZero() {
		t.Fatalf("expected zero aggregates, got margin=%s profit=%s", summary.AverageMargin, summary.TotalProfit)
	}
}

func TestSummarizeAggregates(t *testing.T) {
	items := []models.PriceListItem{
		{CurrentCost: dec("100"), FinalPrice: dec("125")},
		{CurrentCost: dec("50"), FinalPrice: dec("100"), IsManualOverride: true},
	}
	summary := Summarize(items)

	if summary.ItemCount != 2 {
		t.Fatalf("expected 2 items, got %d", summary.ItemCount)
	}
	if !summary.TotalProfit.Equal(dec("75")) {
		t.Fatalf("expected total profit 75, got %s", summary.TotalProfit)
	}
	// margins: 20% and 50%, mean 35%
	if !summary.AverageMargin.Equal(dec("35")) {
		t.Fatalf("expected average margin 35, got %s", summary.AverageMargin)
	}
	if summary.ManualOverrides != 1 {
		t.Fatalf("expected 1 manual override, got %d", summary.ManualOverrides)
	}
}
