// Package engine decides whether a raw QR scan becomes an attendance
// record. It is pure: every call receives the roster, schedule list and
// existing records as snapshots and returns either a finished record or a
// typed rejection. Persistence belongs to the caller.
package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status classifies a recorded scan relative to the schedule grace window.
type Status string

const (
	StatusOnTime Status = "on-time"
	StatusLate   Status = "late"
)

// Student is one roster entry as seen by the engine.
type Student struct {
	ID          string
	Code        string
	Name        string
	Class       string
	DateOfBirth string
	QRPayload   string
}

// Schedule is a configured session start. StartMinute is minutes since
// midnight; GraceMinutes must be non-negative.
type Schedule struct {
	ID           string
	Label        string
	StartMinute  int
	GraceMinutes int
}

// Record is a finalized attendance entry. Student fields are denormalized
// at scan time so the record stays accurate if the roster later changes.
type Record struct {
	ID            string `json:"id"`
	StudentID     string `json:"student_id"`
	StudentName   string `json:"student_name"`
	StudentCode   string `json:"student_code"`
	Class         string `json:"class"`
	Date          string `json:"date"` // 2006-01-02
	Time          string `json:"time"` // 15:04:05
	ScheduleID    string `json:"schedule_id"`
	ScheduleLabel string `json:"schedule_label"`
	Status        Status `json:"status"`
	LateMinutes   int    `json:"late_minutes"`
}

// ErrStudentNotFound means no resolution stage matched the scanned payload.
var ErrStudentNotFound = errors.New("student not found")

// ErrNoScheduleConfigured means the schedule list is empty.
var ErrNoScheduleConfigured = errors.New("no schedule configured")

// DuplicateError rejects a second scan for the same student, day and
// schedule. StudentName is carried for operator feedback.
type DuplicateError struct {
	StudentName string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("attendance already recorded for %s", e.StudentName)
}

// AttemptRecord runs one scan attempt end to end: resolve the payload to a
// student, pick the active schedule, reject duplicates, classify lateness
// and assemble the record. It performs no I/O and retains no state.
func AttemptRecord(rawText string, now time.Time, roster []Student, schedules []Schedule, existing []Record) (Record, error) {
	student, ok := Resolve(rawText, roster)
	if !ok {
		return Record{}, ErrStudentNotFound
	}

	schedule, ok := SelectActive(now, schedules)
	if !ok {
		return Record{}, ErrNoScheduleConfigured
	}

	date := now.Format("2006-01-02")
	if IsDuplicate(student.ID, date, schedule.ID, existing) {
		return Record{}, &DuplicateError{StudentName: student.Name}
	}

	status, lateMinutes := Classify(now, schedule)

	return Record{
		ID:            uuid.NewString(),
		StudentID:     student.ID,
		StudentName:   student.Name,
		StudentCode:   student.Code,
		Class:         student.Class,
		Date:          date,
		Time:          now.Format("15:04:05"),
		ScheduleID:    schedule.ID,
		ScheduleLabel: schedule.Label,
		Status:        status,
		LateMinutes:   lateMinutes,
	}, nil
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
