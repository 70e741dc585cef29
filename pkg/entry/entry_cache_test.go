package entry

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/taplog/taplog/internal/event_bus"
)

func cachedEntry(timestamp time.Time) Entry {
	return Entry{
		ID:        uuid.NewString(),
		Timestamp: timestamp,
		CreatedAt: timestamp,
		UpdatedAt: timestamp,
	}
}

func TestCache_ByDate(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.Local)

	t.Run("midnight belongs to the starting day", func(t *testing.T) {
		cache := NewCache(nil)
		atMidnight := cachedEntry(day)
		justBefore := cachedEntry(day.Add(-time.Millisecond))
		cache.Add(ctx, atMidnight)
		cache.Add(ctx, justBefore)

		result := cache.ByDate(day)
		assert.Len(t, result, 1)
		assert.Equal(t, atMidnight.ID, result[0].ID)

		previousDay := cache.ByDate(day.AddDate(0, 0, -1))
		assert.Len(t, previousDay, 1)
		assert.Equal(t, justBefore.ID, previousDay[0].ID)
	})

	t.Run("end of day still belongs to the day", func(t *testing.T) {
		cache := NewCache(nil)
		lateEvening := cachedEntry(day.Add(24*time.Hour - time.Millisecond))
		nextMidnight := cachedEntry(day.AddDate(0, 0, 1))
		cache.Add(ctx, lateEvening)
		cache.Add(ctx, nextMidnight)

		result := cache.ByDate(day)
		assert.Len(t, result, 1)
		assert.Equal(t, lateEvening.ID, result[0].ID)
	})

	t.Run("any time within the day selects the same bucket", func(t *testing.T) {
		cache := NewCache(nil)
		morning := cachedEntry(day.Add(8 * time.Hour))
		cache.Add(ctx, morning)

		assert.Len(t, cache.ByDate(day.Add(23*time.Hour)), 1)
		assert.Equal(t, 1, cache.CountByDate(day.Add(5*time.Minute)))
	})

	t.Run("results are sorted by timestamp", func(t *testing.T) {
		cache := NewCache(nil)
		later := cachedEntry(day.Add(18 * time.Hour))
		earlier := cachedEntry(day.Add(7 * time.Hour))
		cache.Add(ctx, later)
		cache.Add(ctx, earlier)

		result := cache.ByDate(day)
		assert.Len(t, result, 2)
		assert.Equal(t, earlier.ID, result[0].ID)
		assert.Equal(t, later.ID, result[1].ID)
	})
}

func TestCache_InRange(t *testing.T) {
	ctx := context.Background()
	cache := NewCache(nil)
	base := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.Local)

	first := cachedEntry(base)
	second := cachedEntry(base.Add(time.Hour))
	third := cachedEntry(base.Add(2 * time.Hour))
	cache.Add(ctx, first)
	cache.Add(ctx, second)
	cache.Add(ctx, third)

	// both bounds are inclusive
	result := cache.InRange(base, base.Add(time.Hour))
	assert.Len(t, result, 2)
	assert.Equal(t, first.ID, result[0].ID)
	assert.Equal(t, second.ID, result[1].ID)
}

func TestCache_ReplaceAll(t *testing.T) {
	ctx := context.Background()
	cache := NewCache(nil)
	base := time.Now()

	cache.Add(ctx, cachedEntry(base))
	cache.Add(ctx, cachedEntry(base.Add(time.Minute)))
	assert.Equal(t, 2, cache.Len())

	replacement := cachedEntry(base.Add(2 * time.Minute))
	cache.ReplaceAll(ctx, []Entry{replacement})

	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, replacement.ID, cache.All()[0].ID)
}

func TestCache_Patch(t *testing.T) {
	ctx := context.Background()
	cache := NewCache(nil)
	base := time.Now()

	e := cachedEntry(base)
	cache.Add(ctx, e)

	notes := "patched"
	updatedAt := base.Add(time.Minute)
	found := cache.Patch(ctx, e.ID, EntryUpdate{Notes: &notes, UpdatedAt: updatedAt})
	assert.True(t, found)

	patched := cache.All()[0]
	assert.Equal(t, &notes, patched.Notes)
	assert.Equal(t, updatedAt, patched.UpdatedAt)
	assert.Equal(t, e.Timestamp, patched.Timestamp)

	assert.False(t, cache.Patch(ctx, "no-such-id", EntryUpdate{UpdatedAt: updatedAt}))
}

func TestCache_FirstAndLast(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.Local)

	t.Run("empty cache reports not ok", func(t *testing.T) {
		cache := NewCache(nil)
		_, _, ok := cache.FirstAndLast()
		assert.False(t, ok)
	})

	t.Run("returns the earliest and latest entries", func(t *testing.T) {
		cache := NewCache(nil)
		earliest := cachedEntry(base.AddDate(0, 0, -3))
		middle := cachedEntry(base)
		latest := cachedEntry(base.Add(6 * time.Hour))
		cache.Add(ctx, middle)
		cache.Add(ctx, latest)
		cache.Add(ctx, earliest)

		first, last, ok := cache.FirstAndLast()
		assert.True(t, ok)
		assert.Equal(t, earliest.ID, first.ID)
		assert.Equal(t, latest.ID, last.ID)
	})

	t.Run("agrees with the sorted snapshot on timestamp ties", func(t *testing.T) {
		cache := NewCache(nil)
		cache.Add(ctx, cachedEntry(base))
		cache.Add(ctx, cachedEntry(base))
		cache.Add(ctx, cachedEntry(base))

		all := cache.All()
		first, last, ok := cache.FirstAndLast()
		assert.True(t, ok)
		assert.Equal(t, all[0].ID, first.ID)
		assert.Equal(t, all[len(all)-1].ID, last.ID)
	})
}

func TestCache_PublishesChanges(t *testing.T) {
	ctx := context.Background()
	bus := event_bus.NewEventBus()
	cache := NewCache(bus)

	var seen []event_bus.EventType
	for _, eventType := range []event_bus.EventType{
		event_bus.EntryCreated, event_bus.EntryUpdated, event_bus.EntryDeleted, event_bus.CacheReloaded,
	} {
		eventType := eventType
		bus.Subscribe(eventType, func(e event_bus.Event) error {
			seen = append(seen, eventType)
			return nil
		})
	}

	e := cachedEntry(time.Now())
	cache.Add(ctx, e)
	cache.Patch(ctx, e.ID, EntryUpdate{UpdatedAt: time.Now()})
	cache.Remove(ctx, e.ID)
	cache.ReplaceAll(ctx, nil)

	assert.Equal(t, []event_bus.EventType{
		event_bus.EntryCreated,
		event_bus.EntryUpdated,
		event_bus.EntryDeleted,
		event_bus.CacheReloaded,
	}, seen)

	// removing an unknown id must not notify observers
	seen = nil
	cache.Remove(ctx, "no-such-id")
	assert.Empty(t, seen)
}
