package planner

import (
	"context"
	"errors"
	"fmt"

	"github.com/eventpro/eventpro/internal/event_bus"
	"github.com/eventpro/eventpro/internal/utils"
	"github.com/eventpro/eventpro/pkg/budget"
	"github.com/eventpro/eventpro/pkg/date"
	"github.com/eventpro/eventpro/pkg/task"
	log "github.com/sirupsen/logrus"
)

var ErrValidationRejected = errors.New("validation rejected")
var ErrNotFound = errors.New("not found")
var ErrNothingToUndo = errors.New("nothing to undo")
var ErrNothingToRedo = errors.New("nothing to redo")

// Service is the planner boundary used by HTTP handlers and other packages.
// Rejected and not-found mutations leave the state untouched and are reported as
// ErrValidationRejected / ErrNotFound, except removals which are idempotent.
type Service interface {
	ListEvents(ctx context.Context) ([]budget.EventBudget, error)
	GetEvent(ctx context.Context, eventId string) (budget.EventBudget, error)
	ActiveEvent(ctx context.Context) (budget.EventBudget, error)
	SelectEvent(ctx context.Context, eventId string) (budget.EventBudget, error)
	CreateEvent(ctx context.Context, name string, eventDate date.Date) (budget.EventBudget, error)

	AddItem(ctx context.Context, eventId string, draft budget.ItemDraft) (budget.EventBudget, error)
	UpdateItem(ctx context.Context, eventId string, item budget.BudgetItem) (budget.EventBudget, error)
	RemoveItem(ctx context.Context, eventId string, itemId string) (budget.EventBudget, error)
	AddSubItem(ctx context.Context, eventId string, itemId string, draft budget.SubItemDraft) (budget.EventBudget, error)
	UpdateSubItem(ctx context.Context, eventId string, itemId string, sub budget.SubItem) (budget.EventBudget, error)
	RemoveSubItem(ctx context.Context, eventId string, itemId string, subId string) (budget.EventBudget, error)

	Undo(ctx context.Context) (Snapshot, error)
	Redo(ctx context.Context) (Snapshot, error)

	Summary(ctx context.Context, eventId string) (budget.Summary, error)
	Tasks(ctx context.Context, eventId string) ([]task.Task, error)
	Upcoming(ctx context.Context, eventId string, limit int) ([]task.ScheduledTask, error)
}

type ServiceImpl struct {
	store    *Store
	eventBus *event_bus.EventBus
	clock    utils.Clock
}

func NewService(store *Store, eventBus *event_bus.EventBus, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{store: store, eventBus: eventBus, clock: clock}
}

func (s *ServiceImpl) ListEvents(ctx context.Context) ([]budget.EventBudget, error) {
	return s.store.ListEvents(), nil
}

func (s *ServiceImpl) GetEvent(ctx context.Context, eventId string) (budget.EventBudget, error) {
	event, ok := s.store.GetEvent(eventId)
	if !ok {
		return budget.EventBudget{}, fmt.Errorf("event %s: %w", eventId, ErrNotFound)
	}
	return event, nil
}

func (s *ServiceImpl) ActiveEvent(ctx context.Context) (budget.EventBudget, error) {
	event, ok := s.store.ActiveEvent()
	if !ok {
		return budget.EventBudget{}, fmt.Errorf("active event: %w", ErrNotFound)
	}
	return event, nil
}

func (s *ServiceImpl) SelectEvent(ctx context.Context, eventId string) (budget.EventBudget, error) {
	event, outcome := s.store.SelectEvent(eventId)
	if err := outcomeError(outcome, "select event "+eventId); err != nil {
		return budget.EventBudget{}, err
	}
	return event, nil
}

func (s *ServiceImpl) CreateEvent(ctx context.Context, name string, eventDate date.Date) (budget.EventBudget, error) {
	event, outcome := s.store.CreateEvent(name, eventDate)
	if err := outcomeError(outcome, "create event"); err != nil {
		return budget.EventBudget{}, err
	}
	log.Infof("created event %s (%s) on %s", event.Id, event.EventName, event.Date)
	s.publish(ctx, event_bus.PlannerEventCreated, event_bus.EventCreated{
		EventId:   event.Id,
		EventName: event.EventName,
		Date:      event.Date.String(),
	})
	return event, nil
}

func (s *ServiceImpl) AddItem(ctx context.Context, eventId string, draft budget.ItemDraft) (budget.EventBudget, error) {
	event, outcome := s.store.AddItem(eventId, draft)
	if err := outcomeError(outcome, "add item to event "+eventId); err != nil {
		return budget.EventBudget{}, err
	}
	added := event.Items[len(event.Items)-1]
	s.budgetChanged(ctx, event, "item.added", added.Id, added.Name)
	return event, nil
}

func (s *ServiceImpl) UpdateItem(ctx context.Context, eventId string, item budget.BudgetItem) (budget.EventBudget, error) {
	event, outcome := s.store.UpdateItem(eventId, item)
	if err := outcomeError(outcome, "update item "+item.Id); err != nil {
		return budget.EventBudget{}, err
	}
	s.budgetChanged(ctx, event, "item.updated", item.Id, item.Name)
	return event, nil
}

func (s *ServiceImpl) RemoveItem(ctx context.Context, eventId string, itemId string) (budget.EventBudget, error) {
	event, outcome := s.store.RemoveItem(eventId, itemId)
	if outcome != Applied {
		log.Debugf("remove item %s from event %s: %s", itemId, eventId, outcome)
		return event, nil
	}
	s.budgetChanged(ctx, event, "item.removed", itemId, "")
	return event, nil
}

func (s *ServiceImpl) AddSubItem(ctx context.Context, eventId string, itemId string, draft budget.SubItemDraft) (budget.EventBudget, error) {
	event, outcome := s.store.AddSubItem(eventId, itemId, draft)
	if err := outcomeError(outcome, "add sub-item to item "+itemId); err != nil {
		return budget.EventBudget{}, err
	}
	subs := event.Items[event.FindItem(itemId)].SubItems
	added := subs[len(subs)-1]
	s.budgetChanged(ctx, event, "subitem.added", added.Id, added.Name)
	return event, nil
}

func (s *ServiceImpl) UpdateSubItem(ctx context.Context, eventId string, itemId string, sub budget.SubItem) (budget.EventBudget, error) {
	event, outcome := s.store.UpdateSubItem(eventId, itemId, sub)
	if err := outcomeError(outcome, "update sub-item "+sub.Id); err != nil {
		return budget.EventBudget{}, err
	}
	s.budgetChanged(ctx, event, "subitem.updated", sub.Id, sub.Name)
	return event, nil
}

func (s *ServiceImpl) RemoveSubItem(ctx context.Context, eventId string, itemId string, subId string) (budget.EventBudget, error) {
	event, outcome := s.store.RemoveSubItem(eventId, itemId, subId)
	if outcome != Applied {
		log.Debugf("remove sub-item %s from item %s: %s", subId, itemId, outcome)
		return event, nil
	}
	s.budgetChanged(ctx, event, "subitem.removed", subId, "")
	return event, nil
}

func (s *ServiceImpl) Undo(ctx context.Context) (Snapshot, error) {
	snapshot, ok := s.store.Undo()
	if !ok {
		return snapshot, ErrNothingToUndo
	}
	s.historyChanged(ctx, snapshot, "history.undo")
	return snapshot, nil
}

func (s *ServiceImpl) Redo(ctx context.Context) (Snapshot, error) {
	snapshot, ok := s.store.Redo()
	if !ok {
		return snapshot, ErrNothingToRedo
	}
	s.historyChanged(ctx, snapshot, "history.redo")
	return snapshot, nil
}

func (s *ServiceImpl) Summary(ctx context.Context, eventId string) (budget.Summary, error) {
	event, err := s.GetEvent(ctx, eventId)
	if err != nil {
		return budget.Summary{}, err
	}
	return budget.Summarize(event), nil
}

func (s *ServiceImpl) Tasks(ctx context.Context, eventId string) ([]task.Task, error) {
	event, err := s.GetEvent(ctx, eventId)
	if err != nil {
		return nil, err
	}
	return task.CollectTasks(event), nil
}

func (s *ServiceImpl) Upcoming(ctx context.Context, eventId string, limit int) ([]task.ScheduledTask, error) {
	tasks, err := s.Tasks(ctx, eventId)
	if err != nil {
		return nil, err
	}
	return task.Upcoming(tasks, s.clock.Now(), limit), nil
}

func (s *ServiceImpl) budgetChanged(ctx context.Context, event budget.EventBudget, change string, targetId string, targetName string) {
	log.Debugf("%s %s in event %s", change, targetId, event.Id)
	s.publish(ctx, event_bus.PlannerBudgetChanged, event_bus.BudgetChanged{
		EventId:    event.Id,
		EventName:  event.EventName,
		Change:     change,
		TargetId:   targetId,
		TargetName: targetName,
		Version:    s.store.Version(),
	})
}

func (s *ServiceImpl) historyChanged(ctx context.Context, snapshot Snapshot, change string) {
	log.Infof("%s, now at version %d", change, snapshot.Version)
	s.publish(ctx, event_bus.PlannerBudgetChanged, event_bus.BudgetChanged{
		EventId: snapshot.ActiveEventId,
		Change:  change,
		Version: snapshot.Version,
	})
}

// publish notifies subscribers. The mutation is already applied at this point, so a
// failing subscriber is logged and does not fail the operation.
func (s *ServiceImpl) publish(ctx context.Context, eventType event_bus.EventType, data any) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(event_bus.NewEvent(ctx, eventType, data)); err != nil {
		log.Errorf("failed to publish %s: %v", eventType, err)
	}
}

func outcomeError(outcome Outcome, operation string) error {
	switch outcome {
	case Applied:
		return nil
	case Rejected:
		log.Warnf("%s: %s", operation, outcome)
		return fmt.Errorf("%s: %w", operation, ErrValidationRejected)
	default:
		log.Warnf("%s: %s", operation, outcome)
		return fmt.Errorf("%s: %w", operation, ErrNotFound)
	}
}
