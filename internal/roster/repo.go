package roster

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotFound is returned for lookups of unknown ids.
var ErrNotFound = errors.New("not found")

// Repository persists students and classes in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// ListStudents returns the roster in stable enrollment order. The order
// matters: identity resolution picks the first match in roster order.
func (r *Repository) ListStudents(ctx context.Context) ([]Student, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, code, name, class, COALESCE(date_of_birth, ''), qr_payload
		FROM students
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Student
	for rows.Next() {
		var s Student
		if err := rows.Scan(&s.ID, &s.Code, &s.Name, &s.Class, &s.DateOfBirth, &s.QRPayload); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

// GetStudent returns a single student by internal id.
func (r *Repository) GetStudent(ctx context.Context, id string) (Student, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, code, name, class, COALESCE(date_of_birth, ''), qr_payload
		FROM students WHERE id = $1
	`, id)
	var s Student
	if err := row.Scan(&s.ID, &s.Code, &s.Name, &s.Class, &s.DateOfBirth, &s.QRPayload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Student{}, ErrNotFound
		}
		return Student{}, err
	}
	return s, nil
}

// CreateStudent enrolls a student, generating id and canonical payload.
func (r *Repository) CreateStudent(ctx context.Context, s Student) (Student, error) {
	if err := s.Validate(); err != nil {
		return Student{}, err
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.QRPayload = EncodePayload(s)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO students (id, code, name, class, date_of_birth, qr_payload)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
	`, s.ID, s.Code, s.Name, s.Class, s.DateOfBirth, s.QRPayload)
	return s, err
}

// UpdateStudent edits a student. The canonical payload is regenerated so
// edits to name, code or class stay encoded in newly printed QR codes.
func (r *Repository) UpdateStudent(ctx context.Context, s Student) (Student, error) {
	if err := s.Validate(); err != nil {
		return Student{}, err
	}
	s.QRPayload = EncodePayload(s)
	res, err := r.db.ExecContext(ctx, `
		UPDATE students
		SET code = $2, name = $3, class = $4, date_of_birth = NULLIF($5, ''), qr_payload = $6
		WHERE id = $1
	`, s.ID, s.Code, s.Name, s.Class, s.DateOfBirth, s.QRPayload)
	if err != nil {
		return Student{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Student{}, ErrNotFound
	}
	return s, nil
}

// DeleteStudent removes a student from the roster. Historical attendance
// records keep their denormalized copy of the student's fields.
func (r *Repository) DeleteStudent(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListClasses returns all class groups.
func (r *Repository) ListClasses(ctx context.Context) ([]Class, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM classes ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Class
	for rows.Next() {
		var c Class
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

// CreateClass adds a class group.
func (r *Repository) CreateClass(ctx context.Context, c Class) (Class, error) {
	if c.Name == "" {
		return Class{}, errors.New("class name required")
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO classes (id, name) VALUES ($1, $2)`, c.ID, c.Name)
	return c, err
}

// RenameClass renames a class group and cascades into every member
// student, regenerating each canonical payload under the new class name.
func (r *Repository) RenameClass(ctx context.Context, id, newName string) error {
	if newName == "" {
		return errors.New("class name required")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var oldName string
	if err := tx.QueryRowContext(ctx, `SELECT name FROM classes WHERE id = $1`, id).Scan(&oldName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE classes SET name = $2 WHERE id = $1`, id, newName); err != nil {
		return err
	}
	if oldName != newName {
		rows, err := tx.QueryContext(ctx, `
			SELECT id, code, name, COALESCE(date_of_birth, '')
			FROM students WHERE class = $1
		`, oldName)
		if err != nil {
			return err
		}
		var members []Student
		for rows.Next() {
			var s Student
			if err := rows.Scan(&s.ID, &s.Code, &s.Name, &s.DateOfBirth); err != nil {
				rows.Close()
				return err
			}
			s.Class = newName
			members = append(members, s)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
		for _, s := range members {
			if _, err := tx.ExecContext(ctx, `
				UPDATE students SET class = $2, qr_payload = $3 WHERE id = $1
			`, s.ID, newName, EncodePayload(s)); err != nil {
				return fmt.Errorf("cascade class rename to student %s: %w", s.ID, err)
			}
		}
	}

	return tx.Commit()
}

// DeleteClass removes a class group and its member students, mirroring the
// roster owner's semantics. Attendance records are untouched.
func (r *Repository) DeleteClass(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var name string
	if err := tx.QueryRowContext(ctx, `SELECT name FROM classes WHERE id = $1`, id).Scan(&name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM students WHERE class = $1`, name); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM classes WHERE id = $1`, id); err != nil {
		return err
	}
	return tx.Commit()
}
