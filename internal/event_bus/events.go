package event_bus

import "time"

const (
	PlannerEventCreated  EventType = "planner.event.created"
	PlannerBudgetChanged EventType = "planner.budget.changed"
	ImageEditCompleted   EventType = "image_edit.completed"
	ImageEditFailed      EventType = "image_edit.failed"
)

type EventCreated struct {
	EventId   string
	EventName string
	Date      string
}

// BudgetChanged is published after every applied item or sub-item mutation.
type BudgetChanged struct {
	EventId   string
	EventName string
	// Change is one of "item.added", "item.updated", "item.removed",
	// "subitem.added", "subitem.updated", "subitem.removed", "history.undo", "history.redo".
	Change     string
	TargetId   string
	TargetName string
	Version    int
}

type ImageEdited struct {
	Id        string
	Prompt    string
	Timestamp time.Time
	Err       string
}
