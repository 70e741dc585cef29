package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

type Repository interface {
	// Get returns the singleton settings row, or nil when it has not been
	// created yet.
	Get(ctx context.Context) (*Settings, error)
	// Upsert creates or fully replaces the singleton row.
	Upsert(ctx context.Context, s Settings) error
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Get(ctx context.Context) (*Settings, error) {
	query := `SELECT id, cost_per_unit, currency_symbol, daily_goal, notifications_enabled, created_at, updated_at
				FROM settings WHERE id = ?`

	row := r.db.QueryRowContext(ctx, query, SingletonID)

	var s Settings
	var dailyGoal sql.NullInt64
	var createdAtMillis, updatedAtMillis int64
	err := row.Scan(&s.ID, &s.CostPerUnit, &s.CurrencySymbol, &dailyGoal, &s.NotificationsEnabled, &createdAtMillis, &updatedAtMillis)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		err := fmt.Errorf("failed to read settings: %w", err)
		log.Error(err)
		return nil, err
	}

	if dailyGoal.Valid {
		goal := int(dailyGoal.Int64)
		s.DailyGoal = &goal
	}
	s.CreatedAt = time.UnixMilli(createdAtMillis).In(time.Local)
	s.UpdatedAt = time.UnixMilli(updatedAtMillis).In(time.Local)

	return &s, nil
}

func (r *RepositoryImpl) Upsert(ctx context.Context, s Settings) error {
	query := `INSERT INTO settings (id, cost_per_unit, currency_symbol, daily_goal, notifications_enabled, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT (id) DO UPDATE SET
					cost_per_unit = excluded.cost_per_unit,
					currency_symbol = excluded.currency_symbol,
					daily_goal = excluded.daily_goal,
					notifications_enabled = excluded.notifications_enabled,
					updated_at = excluded.updated_at`

	var dailyGoal sql.NullInt64
	if s.DailyGoal != nil {
		dailyGoal = sql.NullInt64{Int64: int64(*s.DailyGoal), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.CostPerUnit,
		s.CurrencySymbol,
		dailyGoal,
		s.NotificationsEnabled,
		s.CreatedAt.UnixMilli(),
		s.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		err := fmt.Errorf("failed to upsert settings: %w", err)
		log.Error(err)
		return err
	}
	return nil
}
