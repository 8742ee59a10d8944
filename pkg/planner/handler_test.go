package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/eventpro/eventpro/internal/utils"
	"github.com/eventpro/eventpro/pkg/budget"
	"github.com/eventpro/eventpro/pkg/date"
	"github.com/eventpro/eventpro/pkg/task"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// Test setup helper
func setupHandlerTest(t *testing.T) (*mux.Router, *ServiceImpl, budget.EventBudget) {
	store := newTestStore()
	event, err := SeedDemo(store)
	require.NoError(t, err)
	service := NewService(store, nil, &utils.MockClock{FixedNow: now})
	return newTestRouter(NewPlannerHandler(service, NewCsvRenderer(), 3)), service, event
}

func newTestRouter(handler *Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/events", handler.ListEvents).Methods("GET")
	r.HandleFunc("/api/events", handler.CreateEvent).Methods("POST")
	r.HandleFunc("/api/events/active", handler.GetActiveEvent).Methods("GET")
	r.HandleFunc("/api/events/{eventId}", handler.GetEvent).Methods("GET")
	r.HandleFunc("/api/events/{eventId}/active", handler.SelectEvent).Methods("PUT")
	r.HandleFunc("/api/events/{eventId}/summary", handler.GetSummary).Methods("GET")
	r.HandleFunc("/api/events/{eventId}/tasks", handler.GetTasks).Methods("GET")
	r.HandleFunc("/api/events/{eventId}/tasks/upcoming", handler.GetUpcomingTasks).Methods("GET")
	r.HandleFunc("/api/events/{eventId}/export", handler.ExportCsv).Methods("GET")
	r.HandleFunc("/api/events/{eventId}/items", handler.AddItem).Methods("POST")
	r.HandleFunc("/api/events/{eventId}/items/{itemId}", handler.UpdateItem).Methods("PUT")
	r.HandleFunc("/api/events/{eventId}/items/{itemId}", handler.RemoveItem).Methods("DELETE")
	r.HandleFunc("/api/events/{eventId}/items/{itemId}/subitems", handler.AddSubItem).Methods("POST")
	r.HandleFunc("/api/events/{eventId}/items/{itemId}/subitems/{subId}", handler.UpdateSubItem).Methods("PUT")
	r.HandleFunc("/api/events/{eventId}/items/{itemId}/subitems/{subId}", handler.RemoveSubItem).Methods("DELETE")
	r.HandleFunc("/api/history/undo", handler.Undo).Methods("POST")
	r.HandleFunc("/api/history/redo", handler.Redo).Methods("POST")
	return r
}

func doRequest(t *testing.T, router http.Handler, method string, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if s, ok := body.(string); ok {
		reader = bytes.NewBufferString(s)
	} else if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(encoded)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_ListAndGetEvent(t *testing.T) {
	router, _, seeded := setupHandlerTest(t)

	w := doRequest(t, router, http.MethodGet, "/api/events", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var events []EventDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&events))
	require.Len(t, events, 1)
	assert.Equal(t, "2025-06-15", events[0].Date.String())
	assert.True(t, decimal.NewFromInt(17000).Equal(events[0].Total))
	assert.True(t, decimal.NewFromInt(5000).Equal(events[0].Items[0].EffectiveAmount))

	w = doRequest(t, router, http.MethodGet, "/api/events/"+seeded.Id, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodGet, "/api/events/active", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodGet, "/api/events/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_CreateEvent(t *testing.T) {
	router, _, _ := setupHandlerTest(t)

	w := doRequest(t, router, http.MethodPost, "/api/events", CreateEventDTO{EventName: "Aniversário", Date: date.New(2025, time.August, 2)})

	require.Equal(t, http.StatusCreated, w.Code)
	var created EventDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.Equal(t, "Aniversário", created.EventName)
	assert.Empty(t, created.Items)

	tests := []struct {
		name    string
		body    any
		wantErr string
	}{
		{"malformed body", "{", "Invalid request body"},
		{"invalid date", `{"eventName":"Festa","date":"02/08/2025"}`, "Invalid date format"},
		{"missing name", CreateEventDTO{Date: date.New(2025, time.August, 2)}, "Validation failed"},
		{"missing date", CreateEventDTO{EventName: "Festa"}, "Validation failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, http.MethodPost, "/api/events", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var errResponse errorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&errResponse))
			assert.Contains(t, errResponse.Error, tt.wantErr)
		})
	}
}

func TestHandler_AddAndUpdateItem(t *testing.T) {
	router, service, seeded := setupHandlerTest(t)
	base := "/api/events/" + seeded.Id + "/items"

	w := doRequest(t, router, http.MethodPost, base, `{"category":"Comida","name":"Bolo","amount":750,"deadline":"2025-06-01"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var added ItemDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&added))
	assert.Equal(t, "Bolo", added.Name)
	require.NotNil(t, added.Deadline)
	assert.Equal(t, "2025-06-01", added.Deadline.String())
	assert.True(t, decimal.NewFromInt(750).Equal(added.Amount))

	t.Run("rejects non positive amount", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, base, `{"name":"Bolo","amount":0}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects malformed deadline", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, base, `{"name":"Bolo","amount":10,"deadline":"01/06/2025"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		var errResponse errorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&errResponse))
		assert.Equal(t, "Invalid date format", errResponse.Error)
	})

	t.Run("update without subItems keeps them", func(t *testing.T) {
		venue := seeded.Items[0]
		w := doRequest(t, router, http.MethodPut, base+"/"+venue.Id, `{"category":"Espaço","name":"Salão Nobre","amount":5000}`)

		require.Equal(t, http.StatusOK, w.Code)
		var updated ItemDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&updated))
		assert.Equal(t, "Salão Nobre", updated.Name)
		assert.Len(t, updated.SubItems, 2)
		assert.Nil(t, updated.Deadline)
	})

	t.Run("rejects blank or repeated sub-item ids", func(t *testing.T) {
		venue := seeded.Items[0]
		for _, body := range []string{
			`{"name":"Salão","amount":5000,"subItems":[{"id":"x","name":"a","amount":1},{"id":"x","name":"b","amount":2}]}`,
			`{"name":"Salão","amount":5000,"subItems":[{"name":"a","amount":1}]}`,
		} {
			w := doRequest(t, router, http.MethodPut, base+"/"+venue.Id, body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		}
		event, err := service.GetEvent(context.Background(), seeded.Id)
		require.NoError(t, err)
		assert.Len(t, event.Items[0].SubItems, 2)
	})

	t.Run("update with empty subItems clears them", func(t *testing.T) {
		venue := seeded.Items[0]
		w := doRequest(t, router, http.MethodPut, base+"/"+venue.Id, `{"category":"Espaço","name":"Salão","amount":5000,"subItems":[]}`)

		require.Equal(t, http.StatusOK, w.Code)
		event, err := service.GetEvent(context.Background(), seeded.Id)
		require.NoError(t, err)
		assert.Empty(t, event.Items[0].SubItems)
	})

	t.Run("mismatched id", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPut, base+"/"+seeded.Items[1].Id, ItemDTO{Id: "other", Name: "x"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown item", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPut, base+"/missing", ItemDTO{Name: "x"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

// addBeforeUpdate adds a sub-item right before every item update reaches the store.
type addBeforeUpdate struct {
	Service
	itemId string
}

func (s *addBeforeUpdate) UpdateItem(ctx context.Context, eventId string, item budget.BudgetItem) (budget.EventBudget, error) {
	if _, err := s.Service.AddSubItem(ctx, eventId, s.itemId, budget.SubItemDraft{Name: "Decoração extra", Amount: decimal.NewFromInt(300)}); err != nil {
		return budget.EventBudget{}, err
	}
	return s.Service.UpdateItem(ctx, eventId, item)
}

func TestHandler_UpdateItemKeepsConcurrentlyAddedSubItems(t *testing.T) {
	// given
	store := newTestStore()
	seeded, err := SeedDemo(store)
	require.NoError(t, err)
	venue := seeded.Items[0]
	service := &addBeforeUpdate{Service: NewService(store, nil, &utils.MockClock{FixedNow: now}), itemId: venue.Id}
	router := newTestRouter(NewPlannerHandler(service, NewCsvRenderer(), 3))

	// when
	w := doRequest(t, router, http.MethodPut, "/api/events/"+seeded.Id+"/items/"+venue.Id, `{"category":"Espaço","name":"Salão Nobre","amount":5000}`)

	// then
	require.Equal(t, http.StatusOK, w.Code)
	var updated ItemDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&updated))
	assert.Equal(t, "Salão Nobre", updated.Name)
	require.Len(t, updated.SubItems, 3)
	assert.Equal(t, "Decoração extra", updated.SubItems[2].Name)
}

func TestHandler_RemoveIsIdempotent(t *testing.T) {
	router, service, seeded := setupHandlerTest(t)
	path := "/api/events/" + seeded.Id + "/items/" + seeded.Items[3].Id

	for i := 0; i < 2; i++ {
		w := doRequest(t, router, http.MethodDelete, path, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
	event, err := service.GetEvent(context.Background(), seeded.Id)
	require.NoError(t, err)
	assert.Len(t, event.Items, 3)
}

func TestHandler_SubItems(t *testing.T) {
	router, _, seeded := setupHandlerTest(t)
	base := "/api/events/" + seeded.Id + "/items/" + seeded.Items[1].Id + "/subitems"

	w := doRequest(t, router, http.MethodPost, base, SubItemDTO{Name: "Doces", Amount: decimal.NewFromInt(900)})
	require.Equal(t, http.StatusCreated, w.Code)
	var sub SubItemDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&sub))

	w = doRequest(t, router, http.MethodPut, base+"/"+sub.Id, SubItemDTO{Name: "Doces finos", Amount: decimal.NewFromInt(1200), Deadline: date.New(2025, time.May, 30).Ptr()})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&sub))
	assert.Equal(t, "Doces finos", sub.Name)
	require.NotNil(t, sub.Deadline)
	assert.Equal(t, "2025-05-30", sub.Deadline.String())

	w = doRequest(t, router, http.MethodDelete, base+"/"+sub.Id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, router, http.MethodPost, base, SubItemDTO{Name: ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Summary(t *testing.T) {
	router, _, seeded := setupHandlerTest(t)

	w := doRequest(t, router, http.MethodGet, "/api/events/"+seeded.Id+"/summary", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var summary SummaryDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&summary))
	require.Len(t, summary.Categories, 4)
	assert.Equal(t, "Espaço", summary.Categories[0].Category)
	assert.True(t, decimal.NewFromInt(5000).Equal(summary.Categories[0].Total))
	assert.True(t, decimal.NewFromInt(17000).Equal(summary.GrandTotal))
}

func TestHandler_Tasks(t *testing.T) {
	router, _, seeded := setupHandlerTest(t)
	base := "/api/events/" + seeded.Id + "/tasks"

	w := doRequest(t, router, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []task.ScheduledTaskDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&all))
	assert.Len(t, all, 6)

	w = doRequest(t, router, http.MethodGet, base+"/upcoming", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var upcoming []task.ScheduledTaskDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&upcoming))
	assert.Len(t, upcoming, 3)

	w = doRequest(t, router, http.MethodGet, base+"/upcoming?limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&upcoming))
	assert.Len(t, upcoming, 1)

	w = doRequest(t, router, http.MethodGet, base+"/upcoming?limit=zero", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_ExportCsv(t *testing.T) {
	router, _, seeded := setupHandlerTest(t)

	w := doRequest(t, router, http.MethodGet, "/api/events/"+seeded.Id+"/export", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasSuffix(w.Body.String(), "Total,,,17000.00,\n"))
}

func TestHandler_UndoRedo(t *testing.T) {
	router, _, seeded := setupHandlerTest(t)

	w := doRequest(t, router, http.MethodPost, "/api/history/redo", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(t, router, http.MethodPost, "/api/history/undo", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var snapshot SnapshotDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&snapshot))
	assert.Len(t, snapshot.Events[0].Items[0].SubItems, 1)
	assert.Equal(t, seeded.Id, snapshot.ActiveEventId)

	w = doRequest(t, router, http.MethodPost, "/api/history/redo", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&snapshot))
	assert.Len(t, snapshot.Events[0].Items[0].SubItems, 2)
}
