package entry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/taplog/taplog/internal/utils"
)

// Service is the single entry point for mutating logged entries. Every write
// goes to the durable store first; the cache is only mutated after the store
// write succeeded, so the cache can never hold a phantom write. The reverse
// gap (store write applied, process killed before the cache mutation) is
// resolved by the next LoadAll.
type Service interface {
	LoadAll(ctx context.Context) error
	Add(ctx context.Context, input NewEntry) (Entry, error)
	QuickAdd(ctx context.Context) (Entry, error)
	Update(ctx context.Context, id string, update EntryUpdate) (bool, error)
	Remove(ctx context.Context, id string) error
	ByDate(day time.Time) []Entry
	InRange(from, to time.Time) []Entry
	CountByDate(day time.Time) int
	LastError() error
}

type ServiceImpl struct {
	repo  Repository
	cache *Cache
	clock utils.Clock

	mu      sync.Mutex
	lastErr error
}

func NewService(repo Repository, cache *Cache) *ServiceImpl {
	return &ServiceImpl{repo: repo, cache: cache, clock: &utils.SystemClock{}}
}

// LoadAll reads every entry from the durable store and swaps it into the
// cache. On failure the prior cache state is left untouched.
func (s *ServiceImpl) LoadAll(ctx context.Context) error {
	entries, err := s.repo.FindAll(ctx)
	if err != nil {
		s.recordError(err)
		return fmt.Errorf("failed to load entries: %w", err)
	}
	s.cache.ReplaceAll(ctx, entries)
	log.Debugf("Loaded %d entries into cache", len(entries))
	return nil
}

func (s *ServiceImpl) Add(ctx context.Context, input NewEntry) (Entry, error) {
	now := s.clock.Now()

	timestamp := now
	if input.Timestamp != nil {
		timestamp = *input.Timestamp
	}

	e := Entry{
		ID:          uuid.NewString(),
		Timestamp:   timestamp,
		Notes:       input.Notes,
		DisplayTime: input.DisplayTime,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Store(ctx, e); err != nil {
		s.recordError(err)
		return Entry{}, fmt.Errorf("failed to store entry: %w", err)
	}
	s.cache.Add(ctx, e)

	return e, nil
}

// QuickAdd records an entry at the current time with no notes. This is the
// most frequent operation in the system, so it deliberately stays a thin
// wrapper around Add.
func (s *ServiceImpl) QuickAdd(ctx context.Context) (Entry, error) {
	return s.Add(ctx, NewEntry{})
}

// Update merges the given fields into an existing entry. It returns false
// without an error when the id is unknown; no row is ever created.
func (s *ServiceImpl) Update(ctx context.Context, id string, update EntryUpdate) (bool, error) {
	update.UpdatedAt = s.clock.Now()

	affected, err := s.repo.Update(ctx, id, update)
	if err != nil {
		s.recordError(err)
		return false, fmt.Errorf("failed to update entry: %w", err)
	}
	if affected == 0 {
		log.Debugf("update of entry %s affected no rows", id)
		return false, nil
	}
	s.cache.Patch(ctx, id, update)

	return true, nil
}

// Remove deletes an entry. Removing a non-existent id succeeds.
func (s *ServiceImpl) Remove(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.recordError(err)
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	s.cache.Remove(ctx, id)
	return nil
}

// ByDate reflects only what has been loaded or applied this session.
func (s *ServiceImpl) ByDate(day time.Time) []Entry {
	return s.cache.ByDate(day)
}

func (s *ServiceImpl) InRange(from, to time.Time) []Entry {
	return s.cache.InRange(from, to)
}

func (s *ServiceImpl) CountByDate(day time.Time) int {
	return s.cache.CountByDate(day)
}

// LastError returns the most recent store failure seen by this service.
func (s *ServiceImpl) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *ServiceImpl) recordError(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}
