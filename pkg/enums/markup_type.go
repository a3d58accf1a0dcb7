package enums

import "fmt"

// MarkupType selects how a price list item derives its sell price from cost.
type MarkupType string

const (
	MarkupTypePercentage  MarkupType = "percentage"
	MarkupTypeFixedAmount MarkupType = "fixed_amount"
)

var validMarkupTypes = []MarkupType{
	MarkupTypePercentage,
	MarkupTypeFixedAmount,
}

// String implements fmt.Stringer.
func (m MarkupType) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MarkupType.
func (m MarkupType) IsValid() bool {
	for _, candidate := range validMarkupTypes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMarkupType converts raw input into a MarkupType.
func ParseMarkupType(value string) (MarkupType, error) {
	for _, candidate := range validMarkupTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid markup type %q", value)
}
