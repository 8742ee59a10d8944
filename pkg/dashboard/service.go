package dashboard

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/eventpro/eventpro/internal/event_bus"
	"github.com/eventpro/eventpro/internal/utils"
	"github.com/eventpro/eventpro/pkg/budget"
	"github.com/eventpro/eventpro/pkg/date"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type EventLister interface {
	ListEvents(ctx context.Context) ([]budget.EventBudget, error)
}

type EditCounter interface {
	Count(ctx context.Context) int
}

type Service interface {
	GetSummary(ctx context.Context) (Summary, error)
}

type ServiceImpl struct {
	events EventLister
	edits  EditCounter
	clock  utils.Clock

	mu       sync.RWMutex
	activity []Activity
}

func NewService(events EventLister, edits EditCounter, eventBus *event_bus.EventBus, clock utils.Clock) *ServiceImpl {
	service := &ServiceImpl{events: events, edits: edits, clock: clock, activity: []Activity{}}
	event_bus.SubscribeTyped[event_bus.EventCreated](
		eventBus,
		event_bus.PlannerEventCreated,
		func(e event_bus.EventT[event_bus.EventCreated]) error {
			service.record(Activity{
				Type:      string(e.Type),
				Message:   fmt.Sprintf("Event %s created for %s", e.Data.EventName, e.Data.Date),
				EventId:   e.Data.EventId,
				Timestamp: e.Timestamp,
			})
			return nil
		},
	)
	event_bus.SubscribeTyped[event_bus.BudgetChanged](
		eventBus,
		event_bus.PlannerBudgetChanged,
		func(e event_bus.EventT[event_bus.BudgetChanged]) error {
			service.record(Activity{
				Type:      string(e.Type),
				Message:   budgetChangeMessage(e.Data),
				EventId:   e.Data.EventId,
				Timestamp: e.Timestamp,
			})
			return nil
		},
	)
	for _, eventType := range []event_bus.EventType{event_bus.ImageEditCompleted, event_bus.ImageEditFailed} {
		event_bus.SubscribeTyped[event_bus.ImageEdited](
			eventBus,
			eventType,
			func(e event_bus.EventT[event_bus.ImageEdited]) error {
				message := fmt.Sprintf("Image edited: %s", e.Data.Prompt)
				if e.Data.Err != "" {
					message = fmt.Sprintf("Image edit failed: %s", e.Data.Prompt)
				}
				service.record(Activity{Type: string(e.Type), Message: message, Timestamp: e.Timestamp})
				return nil
			},
		)
	}
	return service
}

func (s *ServiceImpl) GetSummary(ctx context.Context) (Summary, error) {
	events, err := s.events.ListEvents(ctx)
	if err != nil {
		log.Errorf("failed to list events: %v", err)
		return Summary{}, fmt.Errorf("failed to list events: %w", err)
	}
	today := date.FromTime(s.clock.Now())

	summary := Summary{TotalBudgeted: decimal.Zero}
	recent := make([]RecentEvent, 0, len(events))
	for _, event := range events {
		total := budget.GrandTotal(event.Items)
		summary.TotalBudgeted = summary.TotalBudgeted.Add(total)
		status := Status(event, today)
		if status != StatusCompleted {
			summary.ActiveEvents++
		}
		recent = append(recent, RecentEvent{
			Id:        event.Id,
			EventName: event.EventName,
			Date:      event.Date,
			Total:     total,
			Status:    status,
		})
	}
	// latest event date first
	slices.SortStableFunc(recent, func(a, b RecentEvent) int {
		return b.Date.Compare(a.Date)
	})
	if len(recent) > RecentEventsLimit {
		recent = recent[:RecentEventsLimit]
	}
	summary.RecentEvents = recent

	if s.edits != nil {
		summary.ImageEdits = s.edits.Count(ctx)
	}

	s.mu.RLock()
	summary.Activity = slices.Clone(s.activity)
	s.mu.RUnlock()
	return summary, nil
}

// Status is completed once the event date has passed, pending while nothing has been
// budgeted yet and in progress otherwise.
func Status(event budget.EventBudget, today date.Date) EventStatus {
	switch {
	case event.Date.Before(today):
		return StatusCompleted
	case len(event.Items) == 0:
		return StatusPending
	default:
		return StatusInProgress
	}
}

// record prepends the activity, keeping the newest ActivityLimit entries.
func (s *ServiceImpl) record(activity Activity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activity = slices.Insert(s.activity, 0, activity)
	if len(s.activity) > ActivityLimit {
		s.activity = s.activity[:ActivityLimit]
	}
}

func budgetChangeMessage(change event_bus.BudgetChanged) string {
	switch change.Change {
	case "history.undo":
		return "Last change undone"
	case "history.redo":
		return "Change redone"
	}
	target := change.TargetName
	if target == "" {
		target = change.TargetId
	}
	return fmt.Sprintf("%s %s in %s", change.Change, target, change.EventName)
}
