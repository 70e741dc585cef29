package settings

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/taplog/taplog/internal/event_bus"
	"github.com/taplog/taplog/internal/utils"
)

// Service manages the singleton settings row. The row is lazily created with
// defaults on first read, so callers never handle "no settings" as a state.
// All derived cost math reads the in-session snapshot via Snapshot, never the
// raw store.
type Service interface {
	Load(ctx context.Context) (Settings, error)
	Update(ctx context.Context, update Update) (Settings, error)
	Reset(ctx context.Context) (Settings, error)
	Snapshot() Settings
	LastError() error
}

// SnapshotProvider is the read-only view the statistics engine depends on.
type SnapshotProvider interface {
	Snapshot() Settings
}

type ServiceImpl struct {
	repo  Repository
	bus   *event_bus.EventBus
	clock utils.Clock

	mu       sync.RWMutex
	snapshot Settings
	loaded   bool
	lastErr  error
}

func NewService(repo Repository, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, bus: bus, clock: &utils.SystemClock{}}
}

// Load fetches the settings from the durable store, creating the defaults row
// when absent. It always returns a fully-populated Settings.
func (s *ServiceImpl) Load(ctx context.Context) (Settings, error) {
	stored, err := s.repo.Get(ctx)
	if err != nil {
		s.recordError(err)
		return Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}

	if stored == nil {
		created := defaults(s.clock.Now())
		if err := s.repo.Upsert(ctx, created); err != nil {
			s.recordError(err)
			return Settings{}, fmt.Errorf("failed to create default settings: %w", err)
		}
		log.Info("Created default settings")
		stored = &created
	}

	s.setSnapshot(ctx, *stored, false)
	return *stored, nil
}

// Update merges the given fields into the current settings, persists them and
// refreshes the in-session snapshot. Previous values are unrecoverable.
func (s *ServiceImpl) Update(ctx context.Context, update Update) (Settings, error) {
	current, err := s.Load(ctx)
	if err != nil {
		return Settings{}, err
	}

	if update.CostPerUnit != nil {
		current.CostPerUnit = *update.CostPerUnit
	}
	if update.CurrencySymbol != nil {
		current.CurrencySymbol = *update.CurrencySymbol
	}
	if update.DailyGoal != nil {
		goal := *update.DailyGoal
		current.DailyGoal = &goal
	}
	if update.NotificationsEnabled != nil {
		current.NotificationsEnabled = *update.NotificationsEnabled
	}
	current.UpdatedAt = s.clock.Now()

	if err := s.repo.Upsert(ctx, current); err != nil {
		s.recordError(err)
		return Settings{}, fmt.Errorf("failed to update settings: %w", err)
	}

	s.setSnapshot(ctx, current, true)
	return current, nil
}

// Reset restores the fixed default values, keeping the original CreatedAt.
func (s *ServiceImpl) Reset(ctx context.Context) (Settings, error) {
	current, err := s.Load(ctx)
	if err != nil {
		return Settings{}, err
	}

	restored := defaults(current.CreatedAt)
	restored.UpdatedAt = s.clock.Now()

	if err := s.repo.Upsert(ctx, restored); err != nil {
		s.recordError(err)
		return Settings{}, fmt.Errorf("failed to reset settings: %w", err)
	}

	s.setSnapshot(ctx, restored, true)
	return restored, nil
}

// Snapshot returns the in-session settings used for cost computation. Before
// the first Load it returns the fixed defaults.
func (s *ServiceImpl) Snapshot() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return defaults(s.clock.Now())
	}
	return s.snapshot
}

func (s *ServiceImpl) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *ServiceImpl) setSnapshot(ctx context.Context, snapshot Settings, changed bool) {
	s.mu.Lock()
	s.snapshot = snapshot
	s.loaded = true
	s.mu.Unlock()

	if changed && s.bus != nil {
		err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.SettingsChanged, event_bus.SettingsChange{
			CostPerUnit:    snapshot.CostPerUnit,
			CurrencySymbol: snapshot.CurrencySymbol,
		}))
		if err != nil {
			log.Warnf("settings observer failed: %v", err)
		}
	}
}

func (s *ServiceImpl) recordError(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}
