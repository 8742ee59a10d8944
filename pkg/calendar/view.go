package calendar

import (
	"time"

	"github.com/eventpro/eventpro/pkg/date"
	"github.com/eventpro/eventpro/pkg/deadline"
	"github.com/eventpro/eventpro/pkg/task"
)

// DayView is a grid cell together with the tasks due on that day.
type DayView struct {
	Cell
	Date  date.Date
	Tasks []task.ScheduledTask
}

type MonthView struct {
	Month    Month
	Previous Month
	Next     Month
	Days     []DayView
}

// BuildMonthView lays out the month grid and attaches the tasks due on each day,
// classified against now.
func BuildMonthView(m Month, weekStart time.Weekday, tasks []task.Task, now time.Time) MonthView {
	cells := BuildMonthStartingOn(m.Year, m.Month, weekStart)
	days := make([]DayView, 0, len(cells))
	for _, cell := range cells {
		view := DayView{Cell: cell, Tasks: []task.ScheduledTask{}}
		if !cell.IsEmpty() {
			view.Date = date.Date{Year: m.Year, Month: m.Month, Day: cell.Day}
			for _, t := range TasksOnDay(tasks, m.Year, m.Month, cell.Day) {
				view.Tasks = append(view.Tasks, task.ScheduledTask{Task: t, Status: deadline.Classify(&t.Deadline, now)})
			}
		}
		days = append(days, view)
	}
	return MonthView{
		Month:    m,
		Previous: ShiftMonth(m, -1),
		Next:     ShiftMonth(m, 1),
		Days:     days,
	}
}
