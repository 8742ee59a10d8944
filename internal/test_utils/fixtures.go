package test_utils

import (
	"fmt"
	"time"

	"github.com/eventpro/eventpro/internal/utils"
	"github.com/eventpro/eventpro/pkg/budget"
	"github.com/eventpro/eventpro/pkg/date"
	"github.com/shopspring/decimal"
)

// FixedClock returns a mock clock stopped at the given instant.
func FixedClock(now time.Time) *utils.MockClock {
	return &utils.MockClock{FixedNow: now}
}

// EventBuilder builds budget.EventBudget values for tests. Ids are derived from the
// event id and the position of the item.
type EventBuilder struct {
	event budget.EventBudget
}

func NewEvent(id string, eventDate date.Date) *EventBuilder {
	return &EventBuilder{event: budget.EventBudget{
		Id:        id,
		EventName: "Event " + id,
		Date:      eventDate,
		Items:     []budget.BudgetItem{},
	}}
}

func (b *EventBuilder) Named(name string) *EventBuilder {
	b.event.EventName = name
	return b
}

// Item appends an item. deadline may be nil.
func (b *EventBuilder) Item(category string, name string, amount int64, deadline *date.Date) *EventBuilder {
	b.event.Items = append(b.event.Items, budget.BudgetItem{
		Id:       fmt.Sprintf("%s-%d", b.event.Id, len(b.event.Items)+1),
		Category: category,
		Name:     name,
		Amount:   decimal.NewFromInt(amount),
		Deadline: deadline,
		SubItems: []budget.SubItem{},
	})
	return b
}

// SubItem appends a sub-item to the last added item.
func (b *EventBuilder) SubItem(name string, amount int64, deadline *date.Date) *EventBuilder {
	if len(b.event.Items) == 0 {
		panic("test_utils: SubItem called before Item")
	}
	item := &b.event.Items[len(b.event.Items)-1]
	item.SubItems = append(item.SubItems, budget.SubItem{
		Id:       fmt.Sprintf("%s-%d", item.Id, len(item.SubItems)+1),
		Name:     name,
		Amount:   decimal.NewFromInt(amount),
		Deadline: deadline,
	})
	return b
}

func (b *EventBuilder) Build() budget.EventBudget {
	return b.event
}
