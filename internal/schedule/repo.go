package schedule

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned for lookups of unknown schedule ids.
var ErrNotFound = errors.New("schedule not found")

// Repository persists schedules in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// List returns all schedules ordered by start time.
func (r *Repository) List(ctx context.Context) ([]Schedule, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, label, start_time, grace_minutes
		FROM schedules
		ORDER BY start_time, label
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Schedule
	for rows.Next() {
		var s Schedule
		if err := rows.Scan(&s.ID, &s.Label, &s.StartTime, &s.GraceMinutes); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

// Create validates and inserts a schedule, generating an id when absent.
func (r *Repository) Create(ctx context.Context, s Schedule) (Schedule, error) {
	if err := s.Validate(); err != nil {
		return Schedule{}, err
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO schedules (id, label, start_time, grace_minutes)
		VALUES ($1, $2, $3, $4)
	`, s.ID, s.Label, s.StartTime, s.GraceMinutes)
	return s, err
}

// Update replaces a schedule's configurable fields.
func (r *Repository) Update(ctx context.Context, s Schedule) error {
	if err := s.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE schedules
		SET label = $2, start_time = $3, grace_minutes = $4
		WHERE id = $1
	`, s.ID, s.Label, s.StartTime, s.GraceMinutes)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a schedule.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
