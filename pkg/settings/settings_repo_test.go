package settings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/taplog/taplog/internal/test_utils"
)

func TestRepositoryImpl_Get(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(test_utils.SetupTestDB(t))

	t.Run("returns nil before first upsert", func(t *testing.T) {
		stored, err := repo.Get(ctx)
		assert.NoError(t, err)
		assert.Nil(t, stored)
	})

	t.Run("returns the persisted row", func(t *testing.T) {
		now := time.Now().Truncate(time.Millisecond)
		goal := 8
		s := defaults(now)
		s.CostPerUnit = 1.25
		s.DailyGoal = &goal

		assert.NoError(t, repo.Upsert(ctx, s))

		stored, err := repo.Get(ctx)
		assert.NoError(t, err)
		assert.NotNil(t, stored)
		assert.Equal(t, SingletonID, stored.ID)
		assert.Equal(t, 1.25, stored.CostPerUnit)
		assert.Equal(t, &goal, stored.DailyGoal)
		assert.True(t, stored.NotificationsEnabled)
		assert.Equal(t, now.UnixMilli(), stored.CreatedAt.UnixMilli())
	})
}

func TestRepositoryImpl_Upsert(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(test_utils.SetupTestDB(t))
	now := time.Now().Truncate(time.Millisecond)

	s := defaults(now)
	assert.NoError(t, repo.Upsert(ctx, s))

	// a second upsert replaces the same singleton row
	s.CostPerUnit = 2.0
	s.CurrencySymbol = "€"
	s.UpdatedAt = now.Add(time.Minute)
	assert.NoError(t, repo.Upsert(ctx, s))

	stored, err := repo.Get(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 2.0, stored.CostPerUnit)
	assert.Equal(t, "€", stored.CurrencySymbol)
	assert.Equal(t, s.UpdatedAt.UnixMilli(), stored.UpdatedAt.UnixMilli())
}
