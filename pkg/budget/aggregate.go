package budget

import "github.com/shopspring/decimal"

// CategoryGroup is one entry of the ordered category -> items mapping.
type CategoryGroup struct {
	Category string
	Items    []BudgetItem
}

type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// GroupByCategory groups items by category. Categories appear in the order of their
// first occurrence and items keep their relative order inside each group.
// Categories are free-form strings.
func GroupByCategory(items []BudgetItem) []CategoryGroup {
	groups := make([]CategoryGroup, 0)
	index := make(map[string]int)
	for _, item := range items {
		idx, ok := index[item.Category]
		if !ok {
			idx = len(groups)
			index[item.Category] = idx
			groups = append(groups, CategoryGroup{Category: item.Category})
		}
		groups[idx].Items = append(groups[idx].Items, item)
	}
	return groups
}

// CategoryTotals sums the effective amount of every group, keeping the group order.
func CategoryTotals(groups []CategoryGroup) []CategoryTotal {
	totals := make([]CategoryTotal, 0, len(groups))
	for _, group := range groups {
		totals = append(totals, CategoryTotal{
			Category: group.Category,
			Total:    sumEffective(group.Items),
		})
	}
	return totals
}

// GrandTotal sums the effective amount of all items, independent of grouping.
func GrandTotal(items []BudgetItem) decimal.Decimal {
	return sumEffective(items)
}

// LookupTotal returns the total of a category.
func LookupTotal(totals []CategoryTotal, category string) (decimal.Decimal, bool) {
	for _, total := range totals {
		if total.Category == category {
			return total.Total, true
		}
	}
	return decimal.Zero, false
}

// Summary bundles the derived aggregate views of one event.
type Summary struct {
	Groups     []CategoryGroup
	Totals     []CategoryTotal
	GrandTotal decimal.Decimal
}

func Summarize(event EventBudget) Summary {
	groups := GroupByCategory(event.Items)
	return Summary{
		Groups:     groups,
		Totals:     CategoryTotals(groups),
		GrandTotal: GrandTotal(event.Items),
	}
}

func sumEffective(items []BudgetItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(EffectiveAmount(item))
	}
	return sum
}
