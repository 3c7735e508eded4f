package pricing

import "github.com/shopspring/decimal"

// LineTotal returns the unit price multiplied by the quantity. Rounding is
// left to the numeric(12,2) storage type; formatting is a presentation
// concern.
func LineTotal(unitPrice decimal.Decimal, qty int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(qty)))
}

// LineView is the slice of a line item the aggregates care about.
type LineView struct {
	Qty   int
	Total decimal.Decimal
}

// Aggregate sums the stored line totals and quantities. Totals are taken as
// stored, not recomputed from unit prices; callers keep each line total
// consistent on every mutation.
func Aggregate(lines []LineView) (decimal.Decimal, int) {
	total := decimal.Zero
	count := 0
	for _, line := range lines {
		total = total.Add(line.Total)
		count += line.Qty
	}
	return total, count
}
