package app

import (
	"github.com/eventpro/eventpro/internal/config"
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Events
	r.HandleFunc("/api/events", deps.PlannerHandler.ListEvents).Methods("GET")
	r.HandleFunc("/api/events", deps.PlannerHandler.CreateEvent).Methods("POST")
	r.HandleFunc("/api/events/active", deps.PlannerHandler.GetActiveEvent).Methods("GET")
	r.HandleFunc("/api/events/{eventId}", deps.PlannerHandler.GetEvent).Methods("GET")
	r.HandleFunc("/api/events/{eventId}/active", deps.PlannerHandler.SelectEvent).Methods("PUT")
	r.HandleFunc("/api/events/{eventId}/summary", deps.PlannerHandler.GetSummary).Methods("GET")
	r.HandleFunc("/api/events/{eventId}/export", deps.PlannerHandler.ExportCsv).Methods("GET")

	// Tasks
	r.HandleFunc("/api/events/{eventId}/tasks", deps.PlannerHandler.GetTasks).Methods("GET")
	r.HandleFunc("/api/events/{eventId}/tasks/upcoming", deps.PlannerHandler.GetUpcomingTasks).Methods("GET")

	// Budget items
	r.HandleFunc("/api/events/{eventId}/items", deps.PlannerHandler.AddItem).Methods("POST")
	r.HandleFunc("/api/events/{eventId}/items/{itemId}", deps.PlannerHandler.UpdateItem).Methods("PUT")
	r.HandleFunc("/api/events/{eventId}/items/{itemId}", deps.PlannerHandler.RemoveItem).Methods("DELETE")
	r.HandleFunc("/api/events/{eventId}/items/{itemId}/subitems", deps.PlannerHandler.AddSubItem).Methods("POST")
	r.HandleFunc("/api/events/{eventId}/items/{itemId}/subitems/{subId}", deps.PlannerHandler.UpdateSubItem).Methods("PUT")
	r.HandleFunc("/api/events/{eventId}/items/{itemId}/subitems/{subId}", deps.PlannerHandler.RemoveSubItem).Methods("DELETE")

	// History
	r.HandleFunc("/api/history/undo", deps.PlannerHandler.Undo).Methods("POST")
	r.HandleFunc("/api/history/redo", deps.PlannerHandler.Redo).Methods("POST")

	// Calendar
	r.HandleFunc("/api/events/{eventId}/calendar", deps.CalendarHandler.GetMonth).Methods("GET")

	// Dashboard
	r.HandleFunc("/api/dashboard", deps.DashboardHandler.GetSummary).Methods("GET")

	// Image editing
	r.HandleFunc("/api/images/edit", deps.ImageEditHandler.Edit).Methods("POST")
	r.HandleFunc("/api/images", deps.ImageEditHandler.History).Methods("GET")
}
