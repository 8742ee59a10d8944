package app

import (
	"time"

	"github.com/eventpro/eventpro/internal/config"
	"github.com/eventpro/eventpro/internal/event_bus"
	"github.com/eventpro/eventpro/internal/utils"
	"github.com/eventpro/eventpro/pkg/calendar"
	"github.com/eventpro/eventpro/pkg/dashboard"
	"github.com/eventpro/eventpro/pkg/image_edit"
	"github.com/eventpro/eventpro/pkg/planner"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock    utils.Clock
	Ids      utils.IdGenerator
	EventBus *event_bus.EventBus

	PlannerStore   *planner.Store
	PlannerService *planner.ServiceImpl
	CsvRenderer    *planner.CsvRendererImpl
	PlannerHandler *planner.Handler

	CalendarHandler *calendar.Handler

	ImageEditor      image_edit.Editor
	ImageEditService *image_edit.ServiceImpl
	ImageEditHandler *image_edit.Handler

	DashboardService *dashboard.ServiceImpl
	DashboardHandler *dashboard.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
// The dashboard subscribes to the event bus, so it is built before anything is seeded.
func BuildDependencies(cfg config.Application, clock utils.Clock, ids utils.IdGenerator) (*Dependencies, error) {
	deps := &Dependencies{Clock: clock, Ids: ids}
	deps.EventBus = event_bus.NewEventBus(clock)

	deps.PlannerStore = planner.NewStore(ids, planner.StoreConfig{
		HistoryLimit:    cfg.Planner.HistoryLimit,
		DefaultCategory: cfg.Planner.DefaultCategory,
	})
	deps.PlannerService = planner.NewService(deps.PlannerStore, deps.EventBus, clock)
	deps.CsvRenderer = planner.NewCsvRenderer()
	deps.PlannerHandler = planner.NewPlannerHandler(deps.PlannerService, deps.CsvRenderer, cfg.Planner.UpcomingLimit)

	weekStart, err := calendar.ParseWeekday(cfg.Calendar.WeekStartDay)
	if err != nil {
		return nil, err
	}
	deps.CalendarHandler = calendar.NewCalendarHandler(deps.PlannerService, clock, weekStart)

	deps.ImageEditor = newImageEditor(cfg.ImageEditor)
	deps.ImageEditService = image_edit.NewService(deps.ImageEditor, deps.EventBus, clock, ids)
	deps.ImageEditHandler = image_edit.NewImageEditHandler(deps.ImageEditService)

	deps.DashboardService = dashboard.NewService(deps.PlannerService, deps.ImageEditService, deps.EventBus, clock)
	deps.DashboardHandler = dashboard.NewDashboardHandler(deps.DashboardService)

	if cfg.Planner.SeedDemo {
		if _, err := planner.SeedDemo(deps.PlannerStore); err != nil {
			return nil, err
		}
	}

	return deps, nil
}

func newImageEditor(cfg config.ImageEditor) image_edit.Editor {
	if !cfg.Enabled {
		log.Info("Image editing is disabled")
		return image_edit.DisabledEditor{}
	}
	if cfg.Endpoint == "" {
		log.Warn("Image editing is enabled but no endpoint is configured")
		return image_edit.DisabledEditor{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	log.Infof("Image editing enabled, endpoint: %s", cfg.Endpoint)
	return image_edit.NewHttpEditor(cfg.Endpoint, cfg.ApiKey, timeout)
}
