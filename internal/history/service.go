package history

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/yudhap/patungan/internal/settlement"
)

// Common errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrEmptySession    = errors.New("session has no members")
)

// Service handles saved-session business logic
type Service struct {
	repo *Repository
	calc *settlement.Service
}

// NewService creates a new history service
func NewService(repo *Repository, calc *settlement.Service) *Service {
	return &Service{repo: repo, calc: calc}
}

// Save computes the session's totals and stores a snapshot alongside the raw
// member data.
func (s *Service) Save(ctx context.Context, session *settlement.Session) (*Record, error) {
	if session == nil || len(session.Members) == 0 {
		return nil, ErrEmptySession
	}

	result := s.calc.Calculate(session)

	rec := &Record{
		ID:        uuid.NewString(),
		Location:  session.Location,
		StartDate: session.StartDate,
		EndDate:   session.EndDate,
		Currency:  session.Currency,
		Members:   session.Members,
		Totals:    result.Totals,
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}

	return rec, nil
}

// GetByID retrieves a saved session by its ID
func (s *Service) GetByID(ctx context.Context, id string) (*Record, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrSessionNotFound
	}
	return rec, nil
}

// List retrieves saved sessions with pagination
func (s *Service) List(ctx context.Context, page, perPage int) ([]*Record, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.List(ctx, perPage, offset)
}

// ListAll retrieves every saved session
func (s *Service) ListAll(ctx context.Context) ([]*Record, error) {
	return s.repo.ListAll(ctx)
}

// Delete removes a saved session
func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrSessionNotFound
	}
	return nil
}
