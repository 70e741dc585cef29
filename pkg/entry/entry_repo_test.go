package entry

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/taplog/taplog/internal/test_utils"
)

func setupTestRepository(t *testing.T) (context.Context, *RepositoryImpl) {
	db := test_utils.SetupTestDB(t)
	return context.Background(), NewRepository(db)
}

func testEntry(timestamp time.Time) Entry {
	return Entry{
		ID:        uuid.NewString(),
		Timestamp: timestamp,
		CreatedAt: timestamp,
		UpdatedAt: timestamp,
	}
}

func TestRepositoryImpl_Store(t *testing.T) {
	ctx, repo := setupTestRepository(t)
	now := time.Now().Truncate(time.Millisecond)

	t.Run("stores and reads back all fields", func(t *testing.T) {
		notes := "first one today"
		displayTime := "9:41 AM"
		e := testEntry(now)
		e.Notes = &notes
		e.DisplayTime = &displayTime

		err := repo.Store(ctx, e)
		assert.NoError(t, err)

		stored, err := repo.FindAll(ctx)
		assert.NoError(t, err)
		assert.Len(t, stored, 1)
		assert.Equal(t, e.ID, stored[0].ID)
		assert.Equal(t, e.Timestamp.UnixMilli(), stored[0].Timestamp.UnixMilli())
		assert.Equal(t, &notes, stored[0].Notes)
		assert.Equal(t, &displayTime, stored[0].DisplayTime)
	})

	t.Run("absent optional fields stay nil", func(t *testing.T) {
		e := testEntry(now)
		err := repo.Store(ctx, e)
		assert.NoError(t, err)

		stored, err := repo.FindAll(ctx)
		assert.NoError(t, err)
		for _, s := range stored {
			if s.ID == e.ID {
				assert.Nil(t, s.Notes)
				assert.Nil(t, s.DisplayTime)
			}
		}
	})

	t.Run("duplicate id fails with ErrEntryExists", func(t *testing.T) {
		e := testEntry(now)
		err := repo.Store(ctx, e)
		assert.NoError(t, err)

		err = repo.Store(ctx, e)
		assert.ErrorIs(t, err, ErrEntryExists)
	})
}

func TestRepositoryImpl_Update(t *testing.T) {
	ctx, repo := setupTestRepository(t)
	now := time.Now().Truncate(time.Millisecond)

	t.Run("merges only the provided fields", func(t *testing.T) {
		notes := "before"
		e := testEntry(now)
		e.Notes = &notes
		assert.NoError(t, repo.Store(ctx, e))

		updatedNotes := "after"
		updatedAt := now.Add(time.Minute)
		affected, err := repo.Update(ctx, e.ID, EntryUpdate{Notes: &updatedNotes, UpdatedAt: updatedAt})
		assert.NoError(t, err)
		assert.Equal(t, int64(1), affected)

		stored, err := repo.FindAll(ctx)
		assert.NoError(t, err)
		assert.Len(t, stored, 1)
		assert.Equal(t, &updatedNotes, stored[0].Notes)
		assert.Equal(t, e.Timestamp.UnixMilli(), stored[0].Timestamp.UnixMilli())
		assert.Equal(t, updatedAt.UnixMilli(), stored[0].UpdatedAt.UnixMilli())
	})

	t.Run("missing id affects zero rows and creates nothing", func(t *testing.T) {
		before, err := repo.FindAll(ctx)
		assert.NoError(t, err)

		timestamp := now.Add(time.Hour)
		affected, err := repo.Update(ctx, "no-such-id", EntryUpdate{Timestamp: &timestamp, UpdatedAt: now})
		assert.NoError(t, err)
		assert.Equal(t, int64(0), affected)

		after, err := repo.FindAll(ctx)
		assert.NoError(t, err)
		assert.Len(t, after, len(before))
	})
}

func TestRepositoryImpl_Delete(t *testing.T) {
	ctx, repo := setupTestRepository(t)
	now := time.Now().Truncate(time.Millisecond)

	e := testEntry(now)
	assert.NoError(t, repo.Store(ctx, e))

	err := repo.Delete(ctx, e.ID)
	assert.NoError(t, err)

	stored, err := repo.FindAll(ctx)
	assert.NoError(t, err)
	assert.Empty(t, stored)

	// deleting again succeeds without effect
	err = repo.Delete(ctx, e.ID)
	assert.NoError(t, err)
}
