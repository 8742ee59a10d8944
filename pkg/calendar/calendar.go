package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eventpro/eventpro/pkg/date"
	"github.com/eventpro/eventpro/pkg/task"
)

var ErrInvalidMonth = errors.New("invalid month")

// DefaultWeekStart is the first column of the grid.
const DefaultWeekStart = time.Sunday

// Month identifies a calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing d.
func MonthOf(d date.Date) Month {
	return Month{Year: d.Year, Month: d.Month}
}

// ParseMonth converts "YYYY-MM" to Month.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q must be in YYYY-MM format", ErrInvalidMonth, s)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// String returns the "YYYY-MM" form.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// ShiftMonth moves m by offset months, rolling over year boundaries in both directions.
func ShiftMonth(m Month, offset int) Month {
	first := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, offset, 0)
	return Month{Year: first.Year(), Month: first.Month()}
}

// DaysIn returns the number of days of the month.
func (m Month) DaysIn() int {
	// day 0 of the next month is the last day of this one
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Cell is one slot of the month grid. Day is 0 for padding cells.
type Cell struct {
	Day int
}

func (c Cell) IsEmpty() bool {
	return c.Day == 0
}

// BuildMonth builds the grid of a month with weeks starting on Sunday.
func BuildMonth(year int, month time.Month) []Cell {
	return BuildMonthStartingOn(year, month, DefaultWeekStart)
}

// BuildMonthStartingOn builds the grid of a month: empty cells up to the weekday of
// the 1st, counted from weekStart, followed by one cell per day.
func BuildMonthStartingOn(year int, month time.Month, weekStart time.Weekday) []Cell {
	if weekStart < time.Sunday || weekStart > time.Saturday {
		weekStart = DefaultWeekStart
	}
	m := Month{Year: year, Month: month}
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	padding := (int(first.Weekday()) - int(weekStart) + 7) % 7
	days := m.DaysIn()

	cells := make([]Cell, 0, padding+days)
	for i := 0; i < padding; i++ {
		cells = append(cells, Cell{})
	}
	for day := 1; day <= days; day++ {
		cells = append(cells, Cell{Day: day})
	}
	return cells
}

// TasksOnDay keeps the tasks whose deadline is the given calendar day.
func TasksOnDay(tasks []task.Task, year int, month time.Month, day int) []task.Task {
	target := date.Date{Year: year, Month: month, Day: day}
	result := make([]task.Task, 0)
	for _, t := range tasks {
		if t.Deadline.Equal(target) {
			result = append(result, t)
		}
	}
	return result
}

// ParseWeekday accepts english weekday names ("sunday", "Monday", ...).
func ParseWeekday(s string) (time.Weekday, error) {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if strings.EqualFold(wd.String(), s) {
			return wd, nil
		}
	}
	return DefaultWeekStart, fmt.Errorf("unknown weekday %q", s)
}
