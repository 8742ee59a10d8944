package dashboard

import (
	"time"

	"github.com/eventpro/eventpro/pkg/date"
	"github.com/shopspring/decimal"
)

type EventStatus string

const (
	StatusPending    EventStatus = "pending"
	StatusInProgress EventStatus = "in-progress"
	StatusCompleted  EventStatus = "completed"
)

const (
	RecentEventsLimit = 5
	ActivityLimit     = 10
)

type RecentEvent struct {
	Id        string
	EventName string
	Date      date.Date
	Total     decimal.Decimal
	Status    EventStatus
}

type Activity struct {
	Type      string
	Message   string
	EventId   string
	Timestamp time.Time
}

type Summary struct {
	// ActiveEvents counts events that did not take place yet.
	ActiveEvents  int
	TotalBudgeted decimal.Decimal
	ImageEdits    int
	RecentEvents  []RecentEvent
	Activity      []Activity
}
