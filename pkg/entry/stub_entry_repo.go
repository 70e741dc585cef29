package entry

import (
	"context"
	"errors"
)

// StubRepository is an in-memory Repository used by service tests. Setting
// FailNext makes the next call return an error, to exercise the
// write-then-project failure paths.
type StubRepository struct {
	Entries  map[string]Entry
	FailNext bool
}

func NewStubRepository() *StubRepository {
	return &StubRepository{Entries: make(map[string]Entry)}
}

func (s *StubRepository) Store(ctx context.Context, e Entry) error {
	if err := s.maybeFail(); err != nil {
		return err
	}
	if _, exists := s.Entries[e.ID]; exists {
		return ErrEntryExists
	}
	s.Entries[e.ID] = e
	return nil
}

func (s *StubRepository) Update(ctx context.Context, id string, update EntryUpdate) (int64, error) {
	if err := s.maybeFail(); err != nil {
		return 0, err
	}
	e, exists := s.Entries[id]
	if !exists {
		return 0, nil
	}
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
	s.Entries[id] = e
	return 1, nil
}

func (s *StubRepository) Delete(ctx context.Context, id string) error {
	if err := s.maybeFail(); err != nil {
		return err
	}
	delete(s.Entries, id)
	return nil
}

func (s *StubRepository) FindAll(ctx context.Context) ([]Entry, error) {
	if err := s.maybeFail(); err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(s.Entries))
	for _, e := range s.Entries {
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *StubRepository) maybeFail() error {
	if s.FailNext {
		s.FailNext = false
		return errors.New("stub store failure")
	}
	return nil
}
