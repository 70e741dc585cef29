package settings

import (
	"context"
	"errors"
)

// StubRepository is an in-memory Repository for service tests.
type StubRepository struct {
	Stored   *Settings
	FailNext bool
}

func (s *StubRepository) Get(ctx context.Context) (*Settings, error) {
	if err := s.maybeFail(); err != nil {
		return nil, err
	}
	if s.Stored == nil {
		return nil, nil
	}
	copied := *s.Stored
	return &copied, nil
}

func (s *StubRepository) Upsert(ctx context.Context, settings Settings) error {
	if err := s.maybeFail(); err != nil {
		return err
	}
	s.Stored = &settings
	return nil
}

func (s *StubRepository) maybeFail() error {
	if s.FailNext {
		s.FailNext = false
		return errors.New("stub store failure")
	}
	return nil
}
