package calendar

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/eventpro/eventpro/internal/rest"
	"github.com/eventpro/eventpro/internal/utils"
	"github.com/eventpro/eventpro/pkg/date"
	"github.com/eventpro/eventpro/pkg/planner"
	"github.com/eventpro/eventpro/pkg/task"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// TaskSource provides the deadline tasks of an event.
type TaskSource interface {
	Tasks(ctx context.Context, eventId string) ([]task.Task, error)
}

type Handler struct {
	tasks     TaskSource
	clock     utils.Clock
	weekStart time.Weekday
}

type DayDTO struct {
	Day   int                     `json:"day"`
	Date  string                  `json:"date,omitempty"`
	Tasks []task.ScheduledTaskDTO `json:"tasks"`
}

type MonthDTO struct {
	Month     string   `json:"month"`
	Previous  string   `json:"previous"`
	Next      string   `json:"next"`
	WeekStart string   `json:"weekStart"`
	Days      []DayDTO `json:"days"`
}

func NewCalendarHandler(tasks TaskSource, clock utils.Clock, weekStart time.Weekday) *Handler {
	return &Handler{tasks: tasks, clock: clock, weekStart: weekStart}
}

// GetMonth godoc
// @Summary Month calendar of an event's deadlines
// @Description Day grid of the requested month (current month by default) with the tasks due on each day
// @Tags Calendar
// @Produce json
// @Param eventId path string true "Event ID"
// @Param month query string false "Month in YYYY-MM format"
// @Success 200 {object} MonthDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/events/{eventId}/calendar [get]
func (handler *Handler) GetMonth(w http.ResponseWriter, r *http.Request) {
	log.Debug("Getting calendar month")
	eventId := mux.Vars(r)["eventId"]

	now := handler.clock.Now()
	month := MonthOf(date.FromTime(now))
	if monthString := r.URL.Query().Get("month"); monthString != "" {
		parsed, err := ParseMonth(monthString)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid month format", "'month' must be in YYYY-MM format")
			return
		}
		month = parsed
	}

	tasks, err := handler.tasks.Tasks(r.Context(), eventId)
	if err != nil {
		if errors.Is(err, planner.ErrNotFound) {
			rest.WriteError(w, http.StatusNotFound, "Event not found", eventId)
			return
		}
		rest.WriteError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}

	view := BuildMonthView(month, handler.weekStart, tasks, now)
	rest.WriteJSON(w, http.StatusOK, monthToDTO(view, handler.weekStart))
}

func monthToDTO(view MonthView, weekStart time.Weekday) MonthDTO {
	days := make([]DayDTO, 0, len(view.Days))
	for _, day := range view.Days {
		days = append(days, DayDTO{
			Day:   day.Day,
			Date:  day.Date.String(),
			Tasks: task.ScheduledToDTOs(day.Tasks),
		})
	}
	return MonthDTO{
		Month:     view.Month.String(),
		Previous:  view.Previous.String(),
		Next:      view.Next.String(),
		WeekStart: weekStart.String(),
		Days:      days,
	}
}
