package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/eventpro/eventpro/internal/utils"
	"github.com/eventpro/eventpro/pkg/date"
	"github.com/eventpro/eventpro/pkg/planner"
	"github.com/eventpro/eventpro/pkg/task"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTaskSource struct {
	tasks map[string][]task.Task
	err   error
}

func (s *stubTaskSource) Tasks(ctx context.Context, eventId string) ([]task.Task, error) {
	if s.err != nil {
		return nil, s.err
	}
	tasks, ok := s.tasks[eventId]
	if !ok {
		return nil, fmt.Errorf("event %s: %w", eventId, planner.ErrNotFound)
	}
	return tasks, nil
}

var handlerNow = time.Date(2025, time.March, 12, 10, 0, 0, 0, time.UTC)

// Test setup helper
func setupHandlerTest(t *testing.T, source TaskSource) *mux.Router {
	handler := NewCalendarHandler(source, &utils.MockClock{FixedNow: handlerNow}, time.Sunday)
	r := mux.NewRouter()
	r.HandleFunc("/api/events/{eventId}/calendar", handler.GetMonth).Methods("GET")
	return r
}

func weddingTasks() map[string][]task.Task {
	return map[string][]task.Task{
		"wedding": {
			{Id: "1", Name: "Aluguel", Deadline: date.New(2025, time.March, 15), ParentName: "Salão", Kind: task.KindSub},
			{Id: "2", Name: "Salão", Deadline: date.New(2025, time.March, 20), Kind: task.KindItem},
			{Id: "3", Name: "Buffet", Deadline: date.New(2025, time.April, 1), Kind: task.KindItem},
		},
	}
}

func TestGetMonth_DefaultsToCurrentMonth(t *testing.T) {
	router := setupHandlerTest(t, &stubTaskSource{tasks: weddingTasks()})
	req := httptest.NewRequest(http.MethodGet, "/api/events/wedding/calendar", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var month MonthDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&month))
	assert.Equal(t, "2025-03", month.Month)
	assert.Equal(t, "2025-02", month.Previous)
	assert.Equal(t, "2025-04", month.Next)
	assert.Equal(t, "Sunday", month.WeekStart)
	// 1 March 2025 is a Saturday
	require.Len(t, month.Days, 6+31)
	assert.Equal(t, 0, month.Days[5].Day)
	assert.Empty(t, month.Days[5].Date)
	assert.Equal(t, "2025-03-01", month.Days[6].Date)

	fifteenth := month.Days[6+14]
	require.Len(t, fifteenth.Tasks, 1)
	assert.Equal(t, "Aluguel", fifteenth.Tasks[0].Name)
	assert.Equal(t, "due-soon", fifteenth.Tasks[0].Status.Category)
	assert.Equal(t, "Due in 3d", fifteenth.Tasks[0].Status.Label)
}

func TestGetMonth_WithMonthParameter(t *testing.T) {
	router := setupHandlerTest(t, &stubTaskSource{tasks: weddingTasks()})
	req := httptest.NewRequest(http.MethodGet, "/api/events/wedding/calendar?month=2025-04", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var month MonthDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&month))
	// 1 April 2025 is a Tuesday
	require.Len(t, month.Days, 2+30)
	first := month.Days[2]
	assert.Equal(t, "2025-04-01", first.Date)
	require.Len(t, first.Tasks, 1)
	assert.Equal(t, "Buffet", first.Tasks[0].Name)
	assert.Equal(t, "scheduled", first.Tasks[0].Status.Category)
}

func TestGetMonth_InvalidMonth(t *testing.T) {
	router := setupHandlerTest(t, &stubTaskSource{tasks: weddingTasks()})
	req := httptest.NewRequest(http.MethodGet, "/api/events/wedding/calendar?month=03-2025", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var errResponse struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&errResponse))
	assert.Contains(t, errResponse.Error, "Invalid month format")
	assert.Contains(t, errResponse.Details, "YYYY-MM")
}

func TestGetMonth_UnknownEvent(t *testing.T) {
	router := setupHandlerTest(t, &stubTaskSource{tasks: weddingTasks()})
	req := httptest.NewRequest(http.MethodGet, "/api/events/missing/calendar", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetMonth_SourceFailure(t *testing.T) {
	router := setupHandlerTest(t, &stubTaskSource{err: errors.New("unavailable")})
	req := httptest.NewRequest(http.MethodGet, "/api/events/wedding/calendar", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
