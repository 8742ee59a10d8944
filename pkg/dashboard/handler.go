package dashboard

import (
	"net/http"
	"time"

	"github.com/eventpro/eventpro/internal/rest"
	"github.com/eventpro/eventpro/pkg/date"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type RecentEventDTO struct {
	Id        string          `json:"id"`
	EventName string          `json:"eventName"`
	Date      date.Date       `json:"date"`
	Total     decimal.Decimal `json:"total"`
	Status    EventStatus     `json:"status"`
}

type ActivityDTO struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	EventId   string    `json:"eventId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type SummaryDTO struct {
	ActiveEvents  int              `json:"activeEvents"`
	TotalBudgeted decimal.Decimal  `json:"totalBudgeted"`
	ImageEdits    int              `json:"imageEdits"`
	RecentEvents  []RecentEventDTO `json:"recentEvents"`
	Activity      []ActivityDTO    `json:"activity"`
}

type Handler struct {
	service Service
}

func NewDashboardHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetSummary godoc
// @Summary Dashboard overview
// @Description Active events, total budgeted, image edits, recent events and recent activity
// @Tags Dashboard
// @Produce json
// @Success 200 {object} SummaryDTO
// @Failure 500 {object} rest.ErrorResponse
// @Router /api/dashboard [get]
func (handler *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	log.Debug("Getting dashboard summary")
	summary, err := handler.service.GetSummary(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}
	rest.WriteJSON(w, http.StatusOK, summaryToDTO(summary))
}

func summaryToDTO(summary Summary) SummaryDTO {
	recent := make([]RecentEventDTO, 0, len(summary.RecentEvents))
	for _, event := range summary.RecentEvents {
		recent = append(recent, RecentEventDTO{
			Id:        event.Id,
			EventName: event.EventName,
			Date:      event.Date,
			Total:     event.Total,
			Status:    event.Status,
		})
	}
	activity := make([]ActivityDTO, 0, len(summary.Activity))
	for _, a := range summary.Activity {
		activity = append(activity, ActivityDTO(a))
	}
	return SummaryDTO{
		ActiveEvents:  summary.ActiveEvents,
		TotalBudgeted: summary.TotalBudgeted,
		ImageEdits:    summary.ImageEdits,
		RecentEvents:  recent,
		Activity:      activity,
	}
}
