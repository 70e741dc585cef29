package entry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrEntryExists is returned when storing an entry whose id is already taken.
var ErrEntryExists = errors.New("entry with this id already exists")

type Repository interface {
	// Store durably persists a new entry. It fails with ErrEntryExists when
	// the id is already present.
	Store(ctx context.Context, e Entry) error
	// Update merges the given fields into an existing row and returns the
	// number of affected rows (0 when the id is absent).
	Update(ctx context.Context, id string, update EntryUpdate) (int64, error)
	// Delete removes an entry. Deleting a non-existent id succeeds.
	Delete(ctx context.Context, id string) error
	// FindAll returns every stored entry in unspecified order.
	FindAll(ctx context.Context) ([]Entry, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Store(ctx context.Context, e Entry) error {
	query := `INSERT INTO entry (id, timestamp, notes, display_time, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?)`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return err
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx,
		e.ID,
		e.Timestamp.UnixMilli(),
		toNullString(e.Notes),
		toNullString(e.DisplayTime),
		e.CreatedAt.UnixMilli(),
		e.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			log.Debugf("entry %s already exists", e.ID)
			return ErrEntryExists
		}
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}

	return nil
}

func (r *RepositoryImpl) Update(ctx context.Context, id string, update EntryUpdate) (int64, error) {
	sets := []string{"updated_at = ?"}
	args := []interface{}{update.UpdatedAt.UnixMilli()}

	if update.Timestamp != nil {
		sets = append(sets, "timestamp = ?")
		args = append(args, update.Timestamp.UnixMilli())
	}
	if update.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *update.Notes)
	}
	if update.DisplayTime != nil {
		sets = append(sets, "display_time = ?")
		args = append(args, *update.DisplayTime)
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE entry SET %s WHERE id = ?", strings.Join(sets, ", "))
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not retrieve affected rows: %w", err)
		log.Error(err)
		return 0, err
	}
	return affected, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id string) error {
	query := "DELETE FROM entry WHERE id = ?"
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) FindAll(ctx context.Context) ([]Entry, error) {
	query := "SELECT id, timestamp, notes, display_time, created_at, updated_at FROM entry"
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query entries: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			err := fmt.Errorf("could not scan entry: %w", err)
			log.Error(err)
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("failed while iterating entries: %w", err)
		log.Error(err)
		return nil, err
	}

	return entries, nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var e Entry
	var timestampMillis, createdAtMillis, updatedAtMillis int64
	var notes, displayTime sql.NullString
	if err := rows.Scan(&e.ID, &timestampMillis, &notes, &displayTime, &createdAtMillis, &updatedAtMillis); err != nil {
		return Entry{}, err
	}
	e.Timestamp = millisToTime(timestampMillis)
	e.CreatedAt = millisToTime(createdAtMillis)
	e.UpdatedAt = millisToTime(updatedAtMillis)
	e.Notes = fromNullString(notes)
	e.DisplayTime = fromNullString(displayTime)
	return e, nil
}

func millisToTime(millis int64) time.Time {
	return time.UnixMilli(millis).In(time.Local)
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	value := s.String
	return &value
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY || code == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}
