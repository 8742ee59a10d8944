package budget

import "github.com/shopspring/decimal"

// EffectiveAmount is the amount counted toward totals. Whenever the item has sub-items
// their sum is authoritative and the item's own Amount is ignored, even if every
// sub-item amount is zero.
func EffectiveAmount(item BudgetItem) decimal.Decimal {
	if len(item.SubItems) == 0 {
		return item.Amount
	}
	sum := decimal.Zero
	for _, sub := range item.SubItems {
		sum = sum.Add(sub.Amount)
	}
	return sum
}
