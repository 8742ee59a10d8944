package deadline

import (
	"fmt"
	"math"
	"time"

	"github.com/eventpro/eventpro/pkg/date"
)

// DueSoonDays is the last number of remaining days still classified as DueSoon.
const DueSoonDays = 7

type Kind string

const (
	Unscheduled Kind = "unscheduled"
	Overdue     Kind = "overdue"
	DueSoon     Kind = "due-soon"
	Scheduled   Kind = "scheduled"
)

// Status is the urgency of a deadline relative to a given instant.
// DaysRemaining is only meaningful for DueSoon, Date for everything but Unscheduled.
type Status struct {
	Kind          Kind
	DaysRemaining int
	Date          date.Date
}

// Classify buckets the deadline relative to now. The number of remaining days is
// the ceiling of the whole days between now and midnight of the deadline, evaluated
// in now's location, so a deadline falling on the current day counts as 0 days left.
func Classify(deadline *date.Date, now time.Time) Status {
	if deadline == nil || deadline.IsZero() {
		return Status{Kind: Unscheduled}
	}
	days := DaysRemaining(*deadline, now)
	switch {
	case days < 0:
		return Status{Kind: Overdue, DaysRemaining: days, Date: *deadline}
	case days <= DueSoonDays:
		return Status{Kind: DueSoon, DaysRemaining: days, Date: *deadline}
	default:
		return Status{Kind: Scheduled, DaysRemaining: days, Date: *deadline}
	}
}

// DaysRemaining returns ceil((deadline - now) / 24h).
func DaysRemaining(deadline date.Date, now time.Time) int {
	diff := deadline.In(now.Location()).Sub(now)
	days := math.Ceil(diff.Hours() / 24)
	if days == 0 {
		// avoid -0
		return 0
	}
	return int(days)
}

// Label is the short human readable text shown next to a deadline.
func (s Status) Label() string {
	switch s.Kind {
	case Overdue:
		return "Overdue"
	case DueSoon:
		return fmt.Sprintf("Due in %dd", s.DaysRemaining)
	case Scheduled:
		return s.Date.In(time.UTC).Format("02/01/2006")
	default:
		return "No deadline"
	}
}

// Category is the display bucket callers use to pick a style.
func (s Status) Category() string {
	return string(s.Kind)
}
