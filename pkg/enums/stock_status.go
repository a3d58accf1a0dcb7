package enums

import "fmt"

// StockStatus is the derived state of a warehouse stock record.
type StockStatus string

const (
	StockStatusZero   StockStatus = "zero"
	StockStatusLow    StockStatus = "low"
	StockStatusOver   StockStatus = "over"
	StockStatusNormal StockStatus = "normal"
)

var validStockStatuses = []StockStatus{
	StockStatusZero,
	StockStatusLow,
	StockStatusOver,
	StockStatusNormal,
}

// String implements fmt.Stringer.
func (s StockStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StockStatus.
func (s StockStatus) IsValid() bool {
	for _, candidate := range validStockStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStockStatus converts raw input into a StockStatus.
func ParseStockStatus(value string) (StockStatus, error) {
	for _, candidate := range validStockStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock status %q", value)
}
