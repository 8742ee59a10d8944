package planner

import (
	"time"

	"github.com/eventpro/eventpro/pkg/budget"
	"github.com/eventpro/eventpro/pkg/date"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// SeedDemo creates the demo wedding budget shown on first start. It goes through the
// regular store operations, so the seeded state can be undone like any other change.
func SeedDemo(store *Store) (budget.EventBudget, error) {
	event, outcome := store.CreateEvent("Casamento Marina & João", date.New(2025, time.June, 15))
	if err := outcomeError(outcome, "seed event"); err != nil {
		return budget.EventBudget{}, err
	}

	items := []budget.ItemDraft{
		{Category: "Espaço", Name: "Salão de Festas", Amount: decimal.NewFromInt(5000), Deadline: date.New(2025, time.March, 20).Ptr()},
		{Category: "Comida", Name: "Buffet Completo", Amount: decimal.NewFromInt(8500), Deadline: date.New(2025, time.April, 1).Ptr()},
		{Category: "Decoração", Name: "Arranjos Florais", Amount: decimal.NewFromInt(2000), Deadline: date.New(2025, time.May, 10).Ptr()},
		{Category: "Som", Name: "DJ e Iluminação", Amount: decimal.NewFromInt(1500), Deadline: date.New(2025, time.May, 20).Ptr()},
	}
	for _, draft := range items {
		if event, outcome = store.AddItem(event.Id, draft); outcome != Applied {
			return budget.EventBudget{}, outcomeError(outcome, "seed item "+draft.Name)
		}
	}

	venueId := event.Items[0].Id
	subItems := []budget.SubItemDraft{
		{Name: "Aluguel", Amount: decimal.NewFromInt(4500), Deadline: date.New(2025, time.March, 15).Ptr()},
		{Name: "Taxa de Limpeza", Amount: decimal.NewFromInt(500), Deadline: date.New(2025, time.June, 10).Ptr()},
	}
	for _, draft := range subItems {
		if event, outcome = store.AddSubItem(event.Id, venueId, draft); outcome != Applied {
			return budget.EventBudget{}, outcomeError(outcome, "seed sub-item "+draft.Name)
		}
	}

	log.Infof("seeded demo event %s with %d items", event.Id, len(event.Items))
	return event, nil
}
