package planner

import (
	"bytes"
	"encoding/csv"

	"github.com/eventpro/eventpro/pkg/budget"
	"github.com/eventpro/eventpro/pkg/date"
	log "github.com/sirupsen/logrus"
)

type CsvRenderer interface {
	RenderBudget(event budget.EventBudget) (string, error)
}

type CsvRendererImpl struct {
}

func NewCsvRenderer() *CsvRendererImpl {
	return &CsvRendererImpl{}
}

// RenderBudget writes one row per item and sub-item, grouped by category, followed by
// a subtotal row per category and the grand total.
func (r *CsvRendererImpl) RenderBudget(event budget.EventBudget) (string, error) {
	summary := budget.Summarize(event)

	data := make([][]string, 0, len(event.Items)*2+len(summary.Groups)+3)
	data = append(data, []string{event.EventName, event.Date.String(), "", "", ""})
	data = append(data, []string{"Category", "Item", "Sub-item", "Amount", "Deadline"})
	for _, group := range summary.Groups {
		for _, item := range group.Items {
			data = append(data, []string{
				group.Category,
				item.Name,
				"",
				budget.EffectiveAmount(item).StringFixed(2),
				date.OptionalString(item.Deadline),
			})
			for _, sub := range item.SubItems {
				data = append(data, []string{
					group.Category,
					item.Name,
					sub.Name,
					sub.Amount.StringFixed(2),
					date.OptionalString(sub.Deadline),
				})
			}
		}
		subtotal, _ := budget.LookupTotal(summary.Totals, group.Category)
		data = append(data, []string{group.Category, "Subtotal", "", subtotal.StringFixed(2), ""})
	}
	data = append(data, []string{"Total", "", "", summary.GrandTotal.StringFixed(2), ""})

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		err := writer.Write(row)
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}
