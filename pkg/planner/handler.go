package planner

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/eventpro/eventpro/internal/rest"
	"github.com/eventpro/eventpro/pkg/budget"
	"github.com/eventpro/eventpro/pkg/date"
	"github.com/eventpro/eventpro/pkg/task"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type EventDTO struct {
	Id        string          `json:"id"`
	EventName string          `json:"eventName"`
	Date      date.Date       `json:"date"`
	Items     []ItemDTO       `json:"items"`
	Total     decimal.Decimal `json:"total"`
}

type CreateEventDTO struct {
	EventName string    `json:"eventName"`
	Date      date.Date `json:"date"`
}

type ItemDTO struct {
	Id       string          `json:"id"`
	Category string          `json:"category"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	// EffectiveAmount is computed, ignored on input.
	EffectiveAmount decimal.Decimal `json:"effectiveAmount"`
	Deadline        *date.Date      `json:"deadline,omitempty"`
	SubItems        []SubItemDTO    `json:"subItems"`
}

type SubItemDTO struct {
	Id       string          `json:"id"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	Deadline *date.Date      `json:"deadline,omitempty"`
}

type CategorySummaryDTO struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Items    []ItemDTO       `json:"items"`
}

type SummaryDTO struct {
	Categories []CategorySummaryDTO `json:"categories"`
	GrandTotal decimal.Decimal      `json:"grandTotal"`
}

type SnapshotDTO struct {
	Version       int        `json:"version"`
	ActiveEventId string     `json:"activeEventId"`
	Events        []EventDTO `json:"events"`
}

type Handler struct {
	service       Service
	csvRenderer   CsvRenderer
	upcomingLimit int
}

func NewPlannerHandler(service Service, csvRenderer CsvRenderer, upcomingLimit int) *Handler {
	return &Handler{service: service, csvRenderer: csvRenderer, upcomingLimit: upcomingLimit}
}

// ListEvents godoc
// @Summary List all events
// @Tags Event
// @Produce json
// @Success 200 {array} EventDTO
// @Router /api/events [get]
func (handler *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing events")
	events, err := handler.service.ListEvents(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	dtos := make([]EventDTO, 0, len(events))
	for _, event := range events {
		dtos = append(dtos, EventToDTO(event))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

// CreateEvent godoc
// @Summary Create an event
// @Description Creates an empty event budget and makes it the active event
// @Tags Event
// @Accept json
// @Produce json
// @Param event body CreateEventDTO true "Event"
// @Success 201 {object} EventDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/events [post]
func (handler *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating event")
	var dto CreateEventDTO
	if !decodeBody(w, r, &dto) {
		return
	}
	event, err := handler.service.CreateEvent(r.Context(), dto.EventName, dto.Date)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, EventToDTO(event))
}

// GetEvent godoc
// @Summary Get an event with its items
// @Tags Event
// @Produce json
// @Param eventId path string true "Event ID"
// @Success 200 {object} EventDTO
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/events/{eventId} [get]
func (handler *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := handler.service.GetEvent(r.Context(), mux.Vars(r)["eventId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, EventToDTO(event))
}

func (handler *Handler) GetActiveEvent(w http.ResponseWriter, r *http.Request) {
	event, err := handler.service.ActiveEvent(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, EventToDTO(event))
}

// SelectEvent godoc
// @Summary Make an event the active one
// @Tags Event
// @Produce json
// @Param eventId path string true "Event ID"
// @Success 200 {object} EventDTO
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/events/{eventId}/active [put]
func (handler *Handler) SelectEvent(w http.ResponseWriter, r *http.Request) {
	log.Debug("Selecting active event")
	event, err := handler.service.SelectEvent(r.Context(), mux.Vars(r)["eventId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, EventToDTO(event))
}

// GetSummary godoc
// @Summary Budget totals of an event
// @Description Items grouped by category with category totals and the grand total
// @Tags Event
// @Produce json
// @Param eventId path string true "Event ID"
// @Success 200 {object} SummaryDTO
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/events/{eventId}/summary [get]
func (handler *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := handler.service.Summary(r.Context(), mux.Vars(r)["eventId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, SummaryToDTO(summary))
}

// GetTasks godoc
// @Summary Deadlines of an event
// @Description All item and sub-item deadlines sorted by date with their status
// @Tags Task
// @Produce json
// @Param eventId path string true "Event ID"
// @Success 200 {array} task.ScheduledTaskDTO
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/events/{eventId}/tasks [get]
func (handler *Handler) GetTasks(w http.ResponseWriter, r *http.Request) {
	handler.writeUpcoming(w, r, 0)
}

// GetUpcomingTasks godoc
// @Summary Soonest deadlines of an event
// @Tags Task
// @Produce json
// @Param eventId path string true "Event ID"
// @Param limit query int false "Number of tasks"
// @Success 200 {array} task.ScheduledTaskDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/events/{eventId}/tasks/upcoming [get]
func (handler *Handler) GetUpcomingTasks(w http.ResponseWriter, r *http.Request) {
	limit := handler.upcomingLimit
	if limitString := r.URL.Query().Get("limit"); limitString != "" {
		parsed, err := strconv.Atoi(limitString)
		if err != nil || parsed < 1 {
			rest.WriteError(w, http.StatusBadRequest, "Invalid limit", "'limit' must be a positive integer")
			return
		}
		limit = parsed
	}
	handler.writeUpcoming(w, r, limit)
}

func (handler *Handler) writeUpcoming(w http.ResponseWriter, r *http.Request, limit int) {
	tasks, err := handler.service.Upcoming(r.Context(), mux.Vars(r)["eventId"], limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, task.ScheduledToDTOs(tasks))
}

// ExportCsv godoc
// @Summary Export an event budget as CSV
// @Tags Event
// @Produce text/csv
// @Param eventId path string true "Event ID"
// @Success 200 {string} string "CSV"
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/events/{eventId}/export [get]
func (handler *Handler) ExportCsv(w http.ResponseWriter, r *http.Request) {
	log.Debug("Exporting event budget")
	event, err := handler.service.GetEvent(r.Context(), mux.Vars(r)["eventId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	csv, err := handler.csvRenderer.RenderBudget(event)
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Failed to render CSV", err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "budget-"+event.Id+".csv"))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(csv)); err != nil {
		log.Errorf("failed to write csv: %v", err)
	}
}

// AddItem godoc
// @Summary Add a budget item
// @Description The item name is required and the amount must be positive
// @Tags BudgetItem
// @Accept json
// @Produce json
// @Param eventId path string true "Event ID"
// @Param item body ItemDTO true "Budget item"
// @Success 201 {object} ItemDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/events/{eventId}/items [post]
func (handler *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	log.Debug("Adding budget item")
	var dto ItemDTO
	if !decodeBody(w, r, &dto) {
		return
	}
	event, err := handler.service.AddItem(r.Context(), mux.Vars(r)["eventId"], budget.ItemDraft{
		Category: dto.Category,
		Name:     dto.Name,
		Amount:   dto.Amount,
		Deadline: dto.Deadline,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, ItemToDTO(event.Items[len(event.Items)-1]))
}

// UpdateItem godoc
// @Summary Update a budget item
// @Description Replaces the item. When subItems is omitted the current sub-items are kept, otherwise their ids must be present and unique.
// @Tags BudgetItem
// @Accept json
// @Produce json
// @Param eventId path string true "Event ID"
// @Param itemId path string true "Item ID"
// @Param item body ItemDTO true "Budget item"
// @Success 200 {object} ItemDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/events/{eventId}/items/{itemId} [put]
func (handler *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	log.Debug("Updating budget item")
	vars := mux.Vars(r)
	eventId, itemId := vars["eventId"], vars["itemId"]

	var dto ItemDTO
	if !decodeBody(w, r, &dto) {
		return
	}
	if dto.Id != "" && dto.Id != itemId {
		rest.WriteError(w, http.StatusBadRequest, "Invalid item id in request body", "")
		return
	}
	dto.Id = itemId

	event, err := handler.service.UpdateItem(r.Context(), eventId, DTOToItem(dto))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ItemToDTO(event.Items[event.FindItem(itemId)]))
}

// RemoveItem godoc
// @Summary Remove a budget item
// @Description Idempotent, removing an absent item is not an error
// @Tags BudgetItem
// @Param eventId path string true "Event ID"
// @Param itemId path string true "Item ID"
// @Success 204 "No Content"
// @Router /api/events/{eventId}/items/{itemId} [delete]
func (handler *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if _, err := handler.service.RemoveItem(r.Context(), vars["eventId"], vars["itemId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddSubItem godoc
// @Summary Add a sub-item to a budget item
// @Tags SubItem
// @Accept json
// @Produce json
// @Param eventId path string true "Event ID"
// @Param itemId path string true "Item ID"
// @Param subItem body SubItemDTO true "Sub-item"
// @Success 201 {object} SubItemDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/events/{eventId}/items/{itemId}/subitems [post]
func (handler *Handler) AddSubItem(w http.ResponseWriter, r *http.Request) {
	log.Debug("Adding sub-item")
	vars := mux.Vars(r)
	itemId := vars["itemId"]

	var dto SubItemDTO
	if !decodeBody(w, r, &dto) {
		return
	}
	event, err := handler.service.AddSubItem(r.Context(), vars["eventId"], itemId, budget.SubItemDraft{
		Name:     dto.Name,
		Amount:   dto.Amount,
		Deadline: dto.Deadline,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	subs := event.Items[event.FindItem(itemId)].SubItems
	rest.WriteJSON(w, http.StatusCreated, SubItemToDTO(subs[len(subs)-1]))
}

func (handler *Handler) UpdateSubItem(w http.ResponseWriter, r *http.Request) {
	log.Debug("Updating sub-item")
	vars := mux.Vars(r)
	itemId, subId := vars["itemId"], vars["subId"]

	var dto SubItemDTO
	if !decodeBody(w, r, &dto) {
		return
	}
	if dto.Id != "" && dto.Id != subId {
		rest.WriteError(w, http.StatusBadRequest, "Invalid sub-item id in request body", "")
		return
	}
	dto.Id = subId
	event, err := handler.service.UpdateSubItem(r.Context(), vars["eventId"], itemId, DTOToSubItem(dto))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	item := event.Items[event.FindItem(itemId)]
	rest.WriteJSON(w, http.StatusOK, SubItemToDTO(item.SubItems[item.FindSubItem(subId)]))
}

func (handler *Handler) RemoveSubItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if _, err := handler.service.RemoveSubItem(r.Context(), vars["eventId"], vars["itemId"], vars["subId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Undo godoc
// @Summary Revert the last budget change
// @Tags History
// @Produce json
// @Success 200 {object} SnapshotDTO
// @Failure 409 {object} rest.ErrorResponse
// @Router /api/history/undo [post]
func (handler *Handler) Undo(w http.ResponseWriter, r *http.Request) {
	snapshot, err := handler.service.Undo(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, SnapshotToDTO(snapshot))
}

// Redo godoc
// @Summary Re-apply the last reverted change
// @Tags History
// @Produce json
// @Success 200 {object} SnapshotDTO
// @Failure 409 {object} rest.ErrorResponse
// @Router /api/history/redo [post]
func (handler *Handler) Redo(w http.ResponseWriter, r *http.Request) {
	snapshot, err := handler.service.Redo(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, SnapshotToDTO(snapshot))
}

// decodeBody reads the JSON body into v and answers 400 when it cannot.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	switch {
	case err == nil:
		return true
	case errors.Is(err, date.ErrInvalidDate):
		rest.WriteError(w, http.StatusBadRequest, "Invalid date format", "dates must be in YYYY-MM-DD format")
	default:
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
	}
	return false
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrValidationRejected):
		rest.WriteError(w, http.StatusBadRequest, "Validation failed", err.Error())
	case errors.Is(err, ErrNotFound):
		rest.WriteError(w, http.StatusNotFound, "Not found", err.Error())
	case errors.Is(err, ErrNothingToUndo), errors.Is(err, ErrNothingToRedo):
		rest.WriteError(w, http.StatusConflict, err.Error(), "")
	default:
		log.Errorf("planner request failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, err.Error(), "")
	}
}

func EventToDTO(event budget.EventBudget) EventDTO {
	items := make([]ItemDTO, 0, len(event.Items))
	for _, item := range event.Items {
		items = append(items, ItemToDTO(item))
	}
	return EventDTO{
		Id:        event.Id,
		EventName: event.EventName,
		Date:      event.Date,
		Items:     items,
		Total:     budget.GrandTotal(event.Items),
	}
}

func ItemToDTO(item budget.BudgetItem) ItemDTO {
	subs := make([]SubItemDTO, 0, len(item.SubItems))
	for _, sub := range item.SubItems {
		subs = append(subs, SubItemToDTO(sub))
	}
	return ItemDTO{
		Id:              item.Id,
		Category:        item.Category,
		Name:            item.Name,
		Amount:          item.Amount,
		EffectiveAmount: budget.EffectiveAmount(item),
		Deadline:        item.Deadline,
		SubItems:        subs,
	}
}

func SubItemToDTO(sub budget.SubItem) SubItemDTO {
	return SubItemDTO{
		Id:       sub.Id,
		Name:     sub.Name,
		Amount:   sub.Amount,
		Deadline: sub.Deadline,
	}
}

// DTOToItem keeps SubItems nil when the DTO carries none, so the store keeps the
// current sub-items of the item.
func DTOToItem(dto ItemDTO) budget.BudgetItem {
	var subs []budget.SubItem
	if dto.SubItems != nil {
		subs = make([]budget.SubItem, 0, len(dto.SubItems))
		for _, subDTO := range dto.SubItems {
			subs = append(subs, DTOToSubItem(subDTO))
		}
	}
	return budget.BudgetItem{
		Id:       dto.Id,
		Category: dto.Category,
		Name:     dto.Name,
		Amount:   dto.Amount,
		Deadline: dto.Deadline,
		SubItems: subs,
	}
}

func DTOToSubItem(dto SubItemDTO) budget.SubItem {
	return budget.SubItem{
		Id:       dto.Id,
		Name:     dto.Name,
		Amount:   dto.Amount,
		Deadline: dto.Deadline,
	}
}

func SummaryToDTO(summary budget.Summary) SummaryDTO {
	categories := make([]CategorySummaryDTO, 0, len(summary.Groups))
	for _, group := range summary.Groups {
		items := make([]ItemDTO, 0, len(group.Items))
		for _, item := range group.Items {
			items = append(items, ItemToDTO(item))
		}
		total, _ := budget.LookupTotal(summary.Totals, group.Category)
		categories = append(categories, CategorySummaryDTO{
			Category: group.Category,
			Total:    total,
			Items:    items,
		})
	}
	return SummaryDTO{Categories: categories, GrandTotal: summary.GrandTotal}
}

func SnapshotToDTO(snapshot Snapshot) SnapshotDTO {
	events := make([]EventDTO, 0, len(snapshot.Events))
	for _, event := range snapshot.Events {
		events = append(events, EventToDTO(event))
	}
	return SnapshotDTO{
		Version:       snapshot.Version,
		ActiveEventId: snapshot.ActiveEventId,
		Events:        events,
	}
}
