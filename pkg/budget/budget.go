package budget

import (
	"github.com/eventpro/eventpro/pkg/date"
	"github.com/shopspring/decimal"
)

type SubItem struct {
	Id       string
	Name     string
	Amount   decimal.Decimal
	Deadline *date.Date
}

type BudgetItem struct {
	Id       string
	Category string
	Name     string
	// Amount is only counted when the item has no sub-items, see EffectiveAmount.
	Amount   decimal.Decimal
	Deadline *date.Date
	SubItems []SubItem
}

type EventBudget struct {
	Id        string
	EventName string
	Date      date.Date
	Items     []BudgetItem
}

// ItemDraft carries the user supplied fields of a new item.
type ItemDraft struct {
	Category string
	Name     string
	Amount   decimal.Decimal
	Deadline *date.Date
}

// SubItemDraft carries the user supplied fields of a new sub-item.
type SubItemDraft struct {
	Name     string
	Amount   decimal.Decimal
	Deadline *date.Date
}

// FindItem returns the index of the item with the given id or -1.
func (e EventBudget) FindItem(itemId string) int {
	for idx, item := range e.Items {
		if item.Id == itemId {
			return idx
		}
	}
	return -1
}

// FindSubItem returns the index of the sub-item with the given id or -1.
func (i BudgetItem) FindSubItem(subId string) int {
	for idx, sub := range i.SubItems {
		if sub.Id == subId {
			return idx
		}
	}
	return -1
}
