package attendance

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"qrattend/internal/engine"
)

// ErrNotFound is returned for lookups of unknown record ids.
var ErrNotFound = errors.New("attendance record not found")

// HistoryEntry is the per-student mirror of a finalized record, kept on
// the student's own log for historical fidelity.
type HistoryEntry struct {
	Date          string        `json:"date"`
	Time          string        `json:"time"`
	ScheduleLabel string        `json:"schedule_label"`
	Status        engine.Status `json:"status"`
	LateMinutes   int           `json:"late_minutes"`
}

// Repository persists attendance records and student history in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const recordColumns = `
	id, student_id, student_name, student_code, class,
	scan_date, scan_time, schedule_id, schedule_label, status, late_minutes`

func scanRecord(row interface{ Scan(dest ...any) error }) (engine.Record, error) {
	var rec engine.Record
	err := row.Scan(
		&rec.ID, &rec.StudentID, &rec.StudentName, &rec.StudentCode, &rec.Class,
		&rec.Date, &rec.Time, &rec.ScheduleID, &rec.ScheduleLabel, &rec.Status, &rec.LateMinutes,
	)
	return rec, err
}

// Insert writes a finalized record. Records are immutable once written;
// the unique (student_id, scan_date, schedule_id) index backs the engine's
// duplicate guard against racing scanners.
func (r *Repository) Insert(ctx context.Context, rec engine.Record) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attendance_records
			(id, student_id, student_name, student_code, class,
			 scan_date, scan_time, schedule_id, schedule_label, status, late_minutes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, rec.ID, rec.StudentID, rec.StudentName, rec.StudentCode, rec.Class,
		rec.Date, rec.Time, rec.ScheduleID, rec.ScheduleLabel, rec.Status, rec.LateMinutes)
	return err
}

// Get returns a single record by id.
func (r *Repository) Get(ctx context.Context, id string) (engine.Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM attendance_records WHERE id = $1
	`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return engine.Record{}, ErrNotFound
	}
	return rec, err
}

// ListByDate returns every record of one calendar day, the duplicate-guard
// snapshot for a scan attempt.
func (r *Repository) ListByDate(ctx context.Context, date string) ([]engine.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM attendance_records
		WHERE scan_date = $1
		ORDER BY scan_time
	`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

// List returns records with basic filters, newest first.
func (r *Repository) List(ctx context.Context, date, studentID string, limit, offset int) ([]engine.Record, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + recordColumns + ` FROM attendance_records WHERE 1=1`
	args := []any{}
	if date != "" {
		args = append(args, date)
		query += ` AND scan_date = $1`
	}
	if studentID != "" {
		args = append(args, studentID)
		if date != "" {
			query += ` AND student_id = $2`
		} else {
			query += ` AND student_id = $1`
		}
	}
	n := len(args)
	query += ` ORDER BY scan_date DESC, scan_time DESC LIMIT $` + itoa(n+1) + ` OFFSET $` + itoa(n+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

func collectRecords(rows *sql.Rows) ([]engine.Record, error) {
	var res []engine.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}

// InsertHistory appends the per-student mirror of a record. Keyed by
// record id so worker retries stay idempotent.
func (r *Repository) InsertHistory(ctx context.Context, rec engine.Record) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO student_history
			(record_id, student_id, scan_date, scan_time, schedule_label, status, late_minutes)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (record_id) DO NOTHING
	`, rec.ID, rec.StudentID, rec.Date, rec.Time, rec.ScheduleLabel, rec.Status, rec.LateMinutes)
	return err
}

// ListHistory returns a student's mirrored attendance log, oldest first.
func (r *Repository) ListHistory(ctx context.Context, studentID string) ([]HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT scan_date, scan_time, schedule_label, status, late_minutes
		FROM student_history
		WHERE student_id = $1
		ORDER BY scan_date, scan_time
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []HistoryEntry
	for rows.Next() {
		var h HistoryEntry
		if err := rows.Scan(&h.Date, &h.Time, &h.ScheduleLabel, &h.Status, &h.LateMinutes); err != nil {
			return nil, err
		}
		res = append(res, h)
	}
	return res, rows.Err()
}

func itoa(i int) string { return strconv.Itoa(i) }
