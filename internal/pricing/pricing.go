// Package pricing computes order totals. Every function is a pure
// function of its inputs; rounding happens only at presentation and
// persistence boundaries, never mid-computation.
package pricing

import "github.com/shopspring/decimal"

// DiscountRate is the single regulatory concession rate. It does not
// compose with other discount types.
var DiscountRate = decimal.NewFromFloat(0.20)

// Line is the minimal view of a cart line the engine needs.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Subtotal sums unit price times quantity over all lines.
func Subtotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// DiscountAmount is 20% of the subtotal when the flag is set, zero
// otherwise.
func DiscountAmount(lines []Line, discountApplied bool) decimal.Decimal {
	if !discountApplied {
		return decimal.Zero
	}
	return Subtotal(lines).Mul(DiscountRate)
}

// Total is the subtotal less the discount.
func Total(lines []Line, discountApplied bool) decimal.Decimal {
	return Subtotal(lines).Sub(DiscountAmount(lines, discountApplied))
}

// Change is cash tendered minus the final total. A negative result is a
// blocking condition for checkout, not an error: the caller re-prompts
// for more cash or cancels.
func Change(lines []Line, discountApplied bool, cashTendered decimal.Decimal) decimal.Decimal {
	return cashTendered.Sub(Total(lines, discountApplied))
}

// Round2 rounds to two decimal places for display and persistence.
func Round2(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}
