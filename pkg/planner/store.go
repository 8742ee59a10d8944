package planner

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/eventpro/eventpro/internal/utils"
	"github.com/eventpro/eventpro/pkg/budget"
	"github.com/eventpro/eventpro/pkg/date"
)

// Outcome tells what a mutation did. Only Applied changes the state.
type Outcome int

const (
	Applied Outcome = iota
	// Rejected means a required field was empty or an amount was not positive.
	Rejected
	// NotFound means the targeted event, item or sub-item does not exist.
	NotFound
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Rejected:
		return "rejected"
	case NotFound:
		return "not found"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Snapshot is one immutable version of the planner state.
type Snapshot struct {
	Version       int
	Events        []budget.EventBudget
	ActiveEventId string
}

func (s *Snapshot) findEvent(id string) int {
	for idx, event := range s.Events {
		if event.Id == id {
			return idx
		}
	}
	return -1
}

type StoreConfig struct {
	// HistoryLimit bounds the number of undo steps kept. Zero disables undo.
	HistoryLimit int
	// DefaultCategory is assigned to new items without a category.
	DefaultCategory string
}

// Store owns the list of events. Mutations are serialized and each applied mutation
// publishes a new snapshot; nothing reachable from a published snapshot is modified
// afterwards, so readers always see either the previous or the next version.
type Store struct {
	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
	undo    []*Snapshot
	redo    []*Snapshot
	ids     utils.IdGenerator
	cfg     StoreConfig
}

func NewStore(ids utils.IdGenerator, cfg StoreConfig) *Store {
	s := &Store{ids: ids, cfg: cfg}
	s.current.Store(&Snapshot{Events: []budget.EventBudget{}})
	return s
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	cur := s.current.Load()
	events := make([]budget.EventBudget, 0, len(cur.Events))
	for _, event := range cur.Events {
		events = append(events, cloneEvent(event))
	}
	return Snapshot{Version: cur.Version, Events: events, ActiveEventId: cur.ActiveEventId}
}

func (s *Store) Version() int {
	return s.current.Load().Version
}

func (s *Store) ListEvents() []budget.EventBudget {
	return s.Snapshot().Events
}

func (s *Store) GetEvent(id string) (budget.EventBudget, bool) {
	cur := s.current.Load()
	idx := cur.findEvent(id)
	if idx == -1 {
		return budget.EventBudget{}, false
	}
	return cloneEvent(cur.Events[idx]), true
}

// ActiveEvent returns the currently selected event.
func (s *Store) ActiveEvent() (budget.EventBudget, bool) {
	return s.GetEvent(s.current.Load().ActiveEventId)
}

// CreateEvent appends a new event and makes it the active one.
func (s *Store) CreateEvent(name string, eventDate date.Date) (budget.EventBudget, Outcome) {
	if isBlank(name) || eventDate.IsZero() {
		return budget.EventBudget{}, Rejected
	}
	var created budget.EventBudget
	outcome := s.mutate(true, func(cur *Snapshot) (*Snapshot, Outcome) {
		created = budget.EventBudget{
			Id:        s.newId(func(id string) bool { return cur.findEvent(id) != -1 }),
			EventName: name,
			Date:      eventDate,
			Items:     []budget.BudgetItem{},
		}
		events := make([]budget.EventBudget, 0, len(cur.Events)+1)
		events = append(events, cur.Events...)
		events = append(events, created)
		return &Snapshot{Events: events, ActiveEventId: created.Id}, Applied
	})
	return cloneEvent(created), outcome
}

// SelectEvent changes the active event. Selection is not recorded in the undo history.
func (s *Store) SelectEvent(id string) (budget.EventBudget, Outcome) {
	var selected budget.EventBudget
	outcome := s.mutate(false, func(cur *Snapshot) (*Snapshot, Outcome) {
		idx := cur.findEvent(id)
		if idx == -1 {
			return nil, NotFound
		}
		selected = cur.Events[idx]
		return &Snapshot{Events: cur.Events, ActiveEventId: id}, Applied
	})
	return cloneEvent(selected), outcome
}

// AddItem appends a new item with a fresh id and no sub-items.
func (s *Store) AddItem(eventId string, draft budget.ItemDraft) (budget.EventBudget, Outcome) {
	if isBlank(draft.Name) || !draft.Amount.IsPositive() {
		return s.unchanged(eventId, Rejected)
	}
	return s.updateEvent(eventId, func(event budget.EventBudget) (budget.EventBudget, Outcome) {
		category := draft.Category
		if isBlank(category) {
			category = s.cfg.DefaultCategory
		}
		item := budget.BudgetItem{
			Id:       s.newId(func(id string) bool { return event.FindItem(id) != -1 }),
			Category: category,
			Name:     draft.Name,
			Amount:   draft.Amount,
			Deadline: cloneDate(draft.Deadline),
			SubItems: []budget.SubItem{},
		}
		items := make([]budget.BudgetItem, 0, len(event.Items)+1)
		items = append(items, event.Items...)
		event.Items = append(items, item)
		return event, Applied
	})
}

// UpdateItem replaces the item with the same id, keeping its position. A nil SubItems
// keeps the sub-items the item has at the time the update is applied. Sub-item ids
// must be non-blank and unique within the item, otherwise the update is Rejected.
func (s *Store) UpdateItem(eventId string, item budget.BudgetItem) (budget.EventBudget, Outcome) {
	if item.SubItems != nil && !validSubItemIds(item.SubItems) {
		return s.unchanged(eventId, Rejected)
	}
	return s.updateEvent(eventId, func(event budget.EventBudget) (budget.EventBudget, Outcome) {
		idx := event.FindItem(item.Id)
		if idx == -1 {
			return event, NotFound
		}
		if item.SubItems == nil {
			item.SubItems = event.Items[idx].SubItems
		}
		event.Items = slices.Clone(event.Items)
		event.Items[idx] = cloneItem(item)
		return event, Applied
	})
}

// RemoveItem drops the item with the given id.
func (s *Store) RemoveItem(eventId string, itemId string) (budget.EventBudget, Outcome) {
	return s.updateEvent(eventId, func(event budget.EventBudget) (budget.EventBudget, Outcome) {
		idx := event.FindItem(itemId)
		if idx == -1 {
			return event, NotFound
		}
		event.Items = slices.Delete(slices.Clone(event.Items), idx, idx+1)
		return event, Applied
	})
}

// AddSubItem appends a sub-item with a fresh id to the parent item.
func (s *Store) AddSubItem(eventId string, itemId string, draft budget.SubItemDraft) (budget.EventBudget, Outcome) {
	if isBlank(draft.Name) {
		return s.unchanged(eventId, Rejected)
	}
	return s.updateItem(eventId, itemId, func(item budget.BudgetItem) (budget.BudgetItem, Outcome) {
		sub := budget.SubItem{
			Id:       s.newId(func(id string) bool { return item.FindSubItem(id) != -1 }),
			Name:     draft.Name,
			Amount:   draft.Amount,
			Deadline: cloneDate(draft.Deadline),
		}
		subs := make([]budget.SubItem, 0, len(item.SubItems)+1)
		subs = append(subs, item.SubItems...)
		item.SubItems = append(subs, sub)
		return item, Applied
	})
}

// UpdateSubItem replaces the sub-item with the same id inside its parent item.
func (s *Store) UpdateSubItem(eventId string, itemId string, sub budget.SubItem) (budget.EventBudget, Outcome) {
	return s.updateItem(eventId, itemId, func(item budget.BudgetItem) (budget.BudgetItem, Outcome) {
		idx := item.FindSubItem(sub.Id)
		if idx == -1 {
			return item, NotFound
		}
		item.SubItems = slices.Clone(item.SubItems)
		item.SubItems[idx] = cloneSubItem(sub)
		return item, Applied
	})
}

// RemoveSubItem drops the sub-item with the given id from its parent item.
func (s *Store) RemoveSubItem(eventId string, itemId string, subId string) (budget.EventBudget, Outcome) {
	return s.updateItem(eventId, itemId, func(item budget.BudgetItem) (budget.BudgetItem, Outcome) {
		idx := item.FindSubItem(subId)
		if idx == -1 {
			return item, NotFound
		}
		item.SubItems = slices.Delete(slices.Clone(item.SubItems), idx, idx+1)
		return item, Applied
	})
}

// Undo restores the snapshot preceding the last recorded mutation.
func (s *Store) Undo() (Snapshot, bool) {
	return s.travel(&s.undo, &s.redo)
}

// Redo re-applies the last undone mutation.
func (s *Store) Redo() (Snapshot, bool) {
	return s.travel(&s.redo, &s.undo)
}

func (s *Store) travel(from *[]*Snapshot, to *[]*Snapshot) (Snapshot, bool) {
	s.mu.Lock()
	cur := s.current.Load()
	if len(*from) == 0 {
		s.mu.Unlock()
		return s.Snapshot(), false
	}
	target := (*from)[len(*from)-1]
	*from = (*from)[:len(*from)-1]
	*to = append(*to, cur)

	restored := &Snapshot{Version: cur.Version + 1, Events: target.Events, ActiveEventId: target.ActiveEventId}
	// keep the user's selection when it survives the restore
	if restored.findEvent(cur.ActiveEventId) != -1 {
		restored.ActiveEventId = cur.ActiveEventId
	}
	s.current.Store(restored)
	s.mu.Unlock()
	return s.Snapshot(), true
}

// mutate applies fn to the current snapshot under the write lock. fn must not modify
// cur; it returns a new snapshot (without version) when the outcome is Applied.
func (s *Store) mutate(record bool, fn func(cur *Snapshot) (*Snapshot, Outcome)) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.current.Load()
	next, outcome := fn(cur)
	if outcome != Applied {
		return outcome
	}
	next.Version = cur.Version + 1
	if record && s.cfg.HistoryLimit > 0 {
		s.undo = append(s.undo, cur)
		if len(s.undo) > s.cfg.HistoryLimit {
			s.undo = slices.Delete(s.undo, 0, len(s.undo)-s.cfg.HistoryLimit)
		}
		s.redo = nil
	}
	s.current.Store(next)
	return outcome
}

// updateEvent runs fn on a copy of the event and swaps the result into a new snapshot.
func (s *Store) updateEvent(eventId string, fn func(event budget.EventBudget) (budget.EventBudget, Outcome)) (budget.EventBudget, Outcome) {
	var result budget.EventBudget
	outcome := s.mutate(true, func(cur *Snapshot) (*Snapshot, Outcome) {
		idx := cur.findEvent(eventId)
		if idx == -1 {
			return nil, NotFound
		}
		updated, outcome := fn(cur.Events[idx])
		result = updated
		if outcome != Applied {
			return nil, outcome
		}
		events := slices.Clone(cur.Events)
		events[idx] = updated
		return &Snapshot{Events: events, ActiveEventId: cur.ActiveEventId}, Applied
	})
	return cloneEvent(result), outcome
}

func (s *Store) updateItem(eventId string, itemId string, fn func(item budget.BudgetItem) (budget.BudgetItem, Outcome)) (budget.EventBudget, Outcome) {
	return s.updateEvent(eventId, func(event budget.EventBudget) (budget.EventBudget, Outcome) {
		idx := event.FindItem(itemId)
		if idx == -1 {
			return event, NotFound
		}
		updated, outcome := fn(event.Items[idx])
		if outcome != Applied {
			return event, outcome
		}
		event.Items = slices.Clone(event.Items)
		event.Items[idx] = updated
		return event, Applied
	})
}

func (s *Store) unchanged(eventId string, outcome Outcome) (budget.EventBudget, Outcome) {
	event, _ := s.GetEvent(eventId)
	return event, outcome
}

// newId draws an id and panics when it is already taken in its scope: the generator
// is required to be collision free.
func (s *Store) newId(taken func(id string) bool) string {
	id := s.ids.NewId()
	if id == "" || taken(id) {
		panic(fmt.Sprintf("planner: id generator returned a duplicate id %q", id))
	}
	return id
}

func validSubItemIds(subs []budget.SubItem) bool {
	seen := make(map[string]struct{}, len(subs))
	for _, sub := range subs {
		if isBlank(sub.Id) {
			return false
		}
		if _, ok := seen[sub.Id]; ok {
			return false
		}
		seen[sub.Id] = struct{}{}
	}
	return true
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func cloneDate(d *date.Date) *date.Date {
	if d == nil || d.IsZero() {
		return nil
	}
	c := *d
	return &c
}

func cloneSubItem(sub budget.SubItem) budget.SubItem {
	sub.Deadline = cloneDate(sub.Deadline)
	return sub
}

func cloneItem(item budget.BudgetItem) budget.BudgetItem {
	subs := make([]budget.SubItem, 0, len(item.SubItems))
	for _, sub := range item.SubItems {
		subs = append(subs, cloneSubItem(sub))
	}
	item.SubItems = subs
	item.Deadline = cloneDate(item.Deadline)
	return item
}

func cloneEvent(event budget.EventBudget) budget.EventBudget {
	if event.Id == "" {
		return event
	}
	items := make([]budget.BudgetItem, 0, len(event.Items))
	for _, item := range event.Items {
		items = append(items, cloneItem(item))
	}
	event.Items = items
	return event
}
