package entry

import (
	"context"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/taplog/taplog/internal/event_bus"
)

// Cache is the in-memory projection of the durable store. All reads
// (handlers, statistics) go through it; it never queries the store itself.
// Mutations are applied by the Service after the corresponding store write
// succeeded, and every mutation is published on the event bus so observers
// can react without polling.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	bus     *event_bus.EventBus
}

func NewCache(bus *event_bus.EventBus) *Cache {
	return &Cache{
		entries: make(map[string]Entry),
		bus:     bus,
	}
}

// ReplaceAll atomically swaps the cached entry collection, used after a full
// reload from the durable store.
func (c *Cache) ReplaceAll(ctx context.Context, entries []Entry) {
	replacement := make(map[string]Entry, len(entries))
	for _, e := range entries {
		replacement[e.ID] = e
	}

	c.mu.Lock()
	c.entries = replacement
	c.mu.Unlock()

	c.publish(ctx, event_bus.CacheReloaded, event_bus.CacheReload{Count: len(entries)})
}

// Add inserts or overwrites a single cached entry.
func (c *Cache) Add(ctx context.Context, e Entry) {
	c.mu.Lock()
	c.entries[e.ID] = e
	c.mu.Unlock()

	c.publish(ctx, event_bus.EntryCreated, event_bus.EntryChange{ID: e.ID, Timestamp: e.Timestamp})
}

// Remove drops a cached entry; removing an unknown id is a no-op.
func (c *Cache) Remove(ctx context.Context, id string) {
	c.mu.Lock()
	e, found := c.entries[id]
	delete(c.entries, id)
	c.mu.Unlock()

	if found {
		c.publish(ctx, event_bus.EntryDeleted, event_bus.EntryChange{ID: id, Timestamp: e.Timestamp})
	}
}

// Patch merges the given fields into a cached entry. It returns false when
// the id is not cached.
func (c *Cache) Patch(ctx context.Context, id string, update EntryUpdate) bool {
	c.mu.Lock()
	e, found := c.entries[id]
	if found {
		if update.Timestamp != nil {
			e.Timestamp = *update.Timestamp
		}
		if update.Notes != nil {
			notes := *update.Notes
			e.Notes = &notes
		}
		if update.DisplayTime != nil {
			displayTime := *update.DisplayTime
			e.DisplayTime = &displayTime
		}
		e.UpdatedAt = update.UpdatedAt
		c.entries[id] = e
	}
	c.mu.Unlock()

	if found {
		c.publish(ctx, event_bus.EntryUpdated, event_bus.EntryChange{ID: id, Timestamp: e.Timestamp})
	}
	return found
}

// ByDate returns the cached entries whose timestamp falls within the local
// midnight-to-midnight window of the day containing the given time, sorted
// by timestamp.
func (c *Cache) ByDate(day time.Time) []Entry {
	dayStart := DayOf(day)
	dayEnd := dayStart.AddDate(0, 0, 1)

	c.mu.RLock()
	result := make([]Entry, 0)
	for _, e := range c.entries {
		if !e.Timestamp.Before(dayStart) && e.Timestamp.Before(dayEnd) {
			result = append(result, e)
		}
	}
	c.mu.RUnlock()

	sortByTimestamp(result)
	return result
}

// InRange returns the cached entries with timestamp in [from, to], sorted by
// timestamp.
func (c *Cache) InRange(from, to time.Time) []Entry {
	c.mu.RLock()
	result := make([]Entry, 0)
	for _, e := range c.entries {
		if !e.Timestamp.Before(from) && !e.Timestamp.After(to) {
			result = append(result, e)
		}
	}
	c.mu.RUnlock()

	sortByTimestamp(result)
	return result
}

// CountByDate returns how many cached entries fall within the local day
// containing the given time.
func (c *Cache) CountByDate(day time.Time) int {
	dayStart := DayOf(day)
	dayEnd := dayStart.AddDate(0, 0, 1)

	c.mu.RLock()
	defer c.mu.RUnlock()
	count := 0
	for _, e := range c.entries {
		if !e.Timestamp.Before(dayStart) && e.Timestamp.Before(dayEnd) {
			count++
		}
	}
	return count
}

// All returns a snapshot of every cached entry, sorted by timestamp.
func (c *Cache) All() []Entry {
	c.mu.RLock()
	result := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		result = append(result, e)
	}
	c.mu.RUnlock()

	sortByTimestamp(result)
	return result
}

// FirstAndLast returns the earliest and latest cached entries by timestamp
// without copying the whole collection. ok is false when the cache is empty.
// Ties on timestamp resolve by id, matching the sort order of All.
func (c *Cache) FirstAndLast() (first, last Entry, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, e := range c.entries {
		if !ok {
			first, last, ok = e, e, true
			continue
		}
		if e.Timestamp.Before(first.Timestamp) ||
			(e.Timestamp.Equal(first.Timestamp) && e.ID < first.ID) {
			first = e
		}
		if e.Timestamp.After(last.Timestamp) ||
			(e.Timestamp.Equal(last.Timestamp) && e.ID > last.ID) {
			last = e
		}
	}
	return first, last, ok
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) publish(ctx context.Context, eventType event_bus.EventType, data any) {
	if c.bus == nil {
		return
	}
	// Observer failures must never affect the projection itself.
	if err := c.bus.Publish(event_bus.NewEvent(ctx, eventType, data)); err != nil {
		log.Warnf("cache observer failed for %s: %v", eventType, err)
	}
}

func sortByTimestamp(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Timestamp.Equal(entries[j].Timestamp) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
}
