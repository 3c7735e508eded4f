package enums

import "fmt"

// StockAdjustmentMode selects how a stock adjustment is applied.
type StockAdjustmentMode string

const (
	StockAdjustmentSet    StockAdjustmentMode = "set"
	StockAdjustmentAdd    StockAdjustmentMode = "add"
	StockAdjustmentRemove StockAdjustmentMode = "remove"
)

var validStockAdjustmentModes = []StockAdjustmentMode{
	StockAdjustmentSet,
	StockAdjustmentAdd,
	StockAdjustmentRemove,
}

// String implements fmt.Stringer.
func (m StockAdjustmentMode) String() string {
	return string(m)
}

// IsValid reports whether the value is a known StockAdjustmentMode.
func (m StockAdjustmentMode) IsValid() bool {
	for _, candidate := range validStockAdjustmentModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseStockAdjustmentMode converts raw input into a StockAdjustmentMode.
func ParseStockAdjustmentMode(value string) (StockAdjustmentMode, error) {
	for _, candidate := range validStockAdjustmentModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock adjustment mode %q", value)
}
