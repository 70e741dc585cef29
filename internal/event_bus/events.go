package event_bus

import "time"

// Event types published by the reactive entry cache and the settings service.
const (
	EntryCreated    EventType = "entry.created"
	EntryUpdated    EventType = "entry.updated"
	EntryDeleted    EventType = "entry.deleted"
	CacheReloaded   EventType = "cache.reloaded"
	SettingsChanged EventType = "settings.changed"
)

// EntryChange describes a single cached entry mutation.
type EntryChange struct {
	ID        string
	Timestamp time.Time
}

// CacheReload describes a full projection swap after a reload from the store.
type CacheReload struct {
	Count int
}

// SettingsChange carries the values observers most often react to.
type SettingsChange struct {
	CostPerUnit    float64
	CurrencySymbol string
}
