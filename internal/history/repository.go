package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// Repository handles saved-session persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new history repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a saved session
func (r *Repository) Create(ctx context.Context, rec *Record) error {
	members, err := json.Marshal(rec.Members)
	if err != nil {
		return fmt.Errorf("failed to encode members: %w", err)
	}
	totals, err := json.Marshal(rec.Totals)
	if err != nil {
		return fmt.Errorf("failed to encode totals: %w", err)
	}

	query := `
		INSERT INTO sessions (id, location, start_date, end_date, currency, members, totals)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err = r.db.QueryRowContext(ctx, query,
		rec.ID, rec.Location, rec.StartDate, rec.EndDate, rec.Currency, members, totals,
	).Scan(&rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// GetByID retrieves a saved session by its ID
func (r *Repository) GetByID(ctx context.Context, id string) (*Record, error) {
	query := `
		SELECT id, location, start_date, end_date, currency, members, totals, created_at
		FROM sessions
		WHERE id = $1
	`

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return rec, nil
}

// List retrieves saved sessions ordered by start date, newest first
func (r *Repository) List(ctx context.Context, limit, offset int) ([]*Record, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	query := `
		SELECT id, location, start_date, end_date, currency, members, totals, created_at
		FROM sessions
		ORDER BY start_date DESC, created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	records, err := collectRecords(rows)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// ListAll retrieves every saved session for analytics aggregation
func (r *Repository) ListAll(ctx context.Context) ([]*Record, error) {
	query := `
		SELECT id, location, start_date, end_date, currency, members, totals, created_at
		FROM sessions
		ORDER BY start_date ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// Delete removes a saved session
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete session: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete session: %w", err)
	}

	return affected > 0, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*Record, error) {
	rec := &Record{}
	var members, totals []byte

	err := row.Scan(
		&rec.ID,
		&rec.Location,
		&rec.StartDate,
		&rec.EndDate,
		&rec.Currency,
		&members,
		&totals,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(members, &rec.Members); err != nil {
		return nil, fmt.Errorf("failed to decode members: %w", err)
	}
	if err := json.Unmarshal(totals, &rec.Totals); err != nil {
		return nil, fmt.Errorf("failed to decode totals: %w", err)
	}

	return rec, nil
}

func collectRecords(rows *sql.Rows) ([]*Record, error) {
	records := []*Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sessions: %w", err)
	}
	return records, nil
}
