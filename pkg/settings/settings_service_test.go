package settings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/taplog/taplog/internal/event_bus"
	"github.com/taplog/taplog/internal/utils"
)

func setupTestService(now time.Time) (*StubRepository, *ServiceImpl) {
	repo := &StubRepository{}
	service := &ServiceImpl{repo: repo, clock: &utils.MockClock{FixedNow: now}}
	return repo, service
}

func TestServiceImpl_Load(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.March, 10, 9, 30, 0, 0, time.Local)

	t.Run("lazily creates the defaults row", func(t *testing.T) {
		repo, service := setupTestService(now)

		loaded, err := service.Load(ctx)
		assert.NoError(t, err)
		assert.Equal(t, DefaultCostPerUnit, loaded.CostPerUnit)
		assert.Equal(t, DefaultCurrencySymbol, loaded.CurrencySymbol)
		assert.Nil(t, loaded.DailyGoal)
		assert.True(t, loaded.NotificationsEnabled)
		assert.NotNil(t, repo.Stored)
	})

	t.Run("a second load returns the identical values", func(t *testing.T) {
		_, service := setupTestService(now)

		first, err := service.Load(ctx)
		assert.NoError(t, err)
		second, err := service.Load(ctx)
		assert.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("store failure is surfaced and recorded", func(t *testing.T) {
		repo, service := setupTestService(now)
		repo.FailNext = true

		_, err := service.Load(ctx)
		assert.Error(t, err)
		assert.Error(t, service.LastError())
	})
}

func TestServiceImpl_Update(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.March, 10, 9, 30, 0, 0, time.Local)

	t.Run("merges fields and refreshes the snapshot", func(t *testing.T) {
		_, service := setupTestService(now)

		costPerUnit := 2.0
		updated, err := service.Update(ctx, Update{CostPerUnit: &costPerUnit})
		assert.NoError(t, err)
		assert.Equal(t, 2.0, updated.CostPerUnit)
		assert.Equal(t, DefaultCurrencySymbol, updated.CurrencySymbol)
		assert.Equal(t, 2.0, service.Snapshot().CostPerUnit)
	})

	t.Run("publishes a settings change on the bus", func(t *testing.T) {
		_, service := setupTestService(now)
		bus := event_bus.NewEventBus()
		service.bus = bus

		var seen []event_bus.SettingsChange
		event_bus.SubscribeTyped[event_bus.SettingsChange](bus, event_bus.SettingsChanged,
			func(e event_bus.EventT[event_bus.SettingsChange]) error {
				seen = append(seen, e.Data)
				return nil
			})

		costPerUnit := 3.5
		_, err := service.Update(ctx, Update{CostPerUnit: &costPerUnit})
		assert.NoError(t, err)
		assert.Len(t, seen, 1)
		assert.Equal(t, 3.5, seen[0].CostPerUnit)
	})
}

func TestServiceImpl_Reset(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.March, 10, 9, 30, 0, 0, time.Local)
	_, service := setupTestService(now)

	costPerUnit := 9.99
	goal := 3
	_, err := service.Update(ctx, Update{CostPerUnit: &costPerUnit, DailyGoal: &goal})
	assert.NoError(t, err)

	restored, err := service.Reset(ctx)
	assert.NoError(t, err)
	assert.Equal(t, DefaultCostPerUnit, restored.CostPerUnit)
	assert.Nil(t, restored.DailyGoal)
	assert.True(t, restored.NotificationsEnabled)
	assert.Equal(t, DefaultCostPerUnit, service.Snapshot().CostPerUnit)
}

func TestServiceImpl_Snapshot(t *testing.T) {
	now := time.Date(2025, time.March, 10, 9, 30, 0, 0, time.Local)
	_, service := setupTestService(now)

	// before any load the engine still gets usable defaults
	snapshot := service.Snapshot()
	assert.Equal(t, DefaultCostPerUnit, snapshot.CostPerUnit)
	assert.Equal(t, DefaultCurrencySymbol, snapshot.CurrencySymbol)
}
