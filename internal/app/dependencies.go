package app

import (
	"database/sql"

	log "github.com/sirupsen/logrus"
	"github.com/taplog/taplog/internal/event_bus"
	"github.com/taplog/taplog/internal/utils"
	"github.com/taplog/taplog/pkg/entry"
	"github.com/taplog/taplog/pkg/settings"
	"github.com/taplog/taplog/pkg/stats"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Bus *event_bus.EventBus

	EntryRepo    entry.Repository
	EntryCache   *entry.Cache
	EntryService entry.Service
	EntryHandler *entry.Handler

	SettingsRepo    settings.Repository
	SettingsService settings.Service
	SettingsHandler *settings.Handler

	StatsService     stats.Service
	CsvStatsRenderer *stats.CsvStatsRendererImpl
	StatsHandler     *stats.StatsHandler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB) *Dependencies {
	deps := &Dependencies{}

	deps.Bus = event_bus.NewEventBus()
	deps.Clock = &utils.SystemClock{}

	deps.EntryRepo = entry.NewRepository(db)
	deps.EntryCache = entry.NewCache(deps.Bus)
	deps.EntryService = entry.NewService(deps.EntryRepo, deps.EntryCache)
	deps.EntryHandler = entry.NewHandler(deps.EntryService)

	deps.SettingsRepo = settings.NewRepository(db)
	settingsService := settings.NewService(deps.SettingsRepo, deps.Bus)
	deps.SettingsService = settingsService
	deps.SettingsHandler = settings.NewHandler(deps.SettingsService)

	deps.StatsService = stats.NewService(deps.EntryCache, settingsService, deps.Clock)
	deps.CsvStatsRenderer = stats.NewCsvStatsRenderer()
	deps.StatsHandler = stats.NewStatsHandler(deps.StatsService, deps.CsvStatsRenderer, settingsService)

	subscribeTraceObservers(deps.Bus)

	return deps
}

// subscribeTraceObservers logs every cache and settings change at trace level.
func subscribeTraceObservers(bus *event_bus.EventBus) {
	event_bus.SubscribeTyped[event_bus.EntryChange](bus, event_bus.EntryCreated,
		func(e event_bus.EventT[event_bus.EntryChange]) error {
			log.Tracef("entry %s created at %s", e.Data.ID, e.Data.Timestamp)
			return nil
		})
	event_bus.SubscribeTyped[event_bus.EntryChange](bus, event_bus.EntryDeleted,
		func(e event_bus.EventT[event_bus.EntryChange]) error {
			log.Tracef("entry %s deleted", e.Data.ID)
			return nil
		})
	event_bus.SubscribeTyped[event_bus.CacheReload](bus, event_bus.CacheReloaded,
		func(e event_bus.EventT[event_bus.CacheReload]) error {
			log.Tracef("cache reloaded with %d entries", e.Data.Count)
			return nil
		})
	event_bus.SubscribeTyped[event_bus.SettingsChange](bus, event_bus.SettingsChanged,
		func(e event_bus.EventT[event_bus.SettingsChange]) error {
			log.Tracef("settings changed: costPerUnit=%f", e.Data.CostPerUnit)
			return nil
		})
}
