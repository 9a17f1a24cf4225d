package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttemptRecordOnTime(t *testing.T) {
	roster := testRoster(t)
	schedules := twoSessions()

	rec, err := AttemptRecord(`{"id":"HS001"}`, at(7, 10), roster, schedules, nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "HS001", rec.StudentID)
	assert.Equal(t, "Nguyen Van A", rec.StudentName)
	assert.Equal(t, "2024001", rec.StudentCode)
	assert.Equal(t, "10A1", rec.Class)
	assert.Equal(t, "2026-03-09", rec.Date)
	assert.Equal(t, "07:10:30", rec.Time)
	assert.Equal(t, "SCH001", rec.ScheduleID)
	assert.Equal(t, "Sang", rec.ScheduleLabel)
	assert.Equal(t, StatusOnTime, rec.Status)
	assert.Equal(t, 0, rec.LateMinutes)
}

func TestAttemptRecordLate(t *testing.T) {
	rec, err := AttemptRecord("2024002", at(7, 20), testRoster(t), twoSessions(), nil)
	assert.NoError(t, err)
	assert.Equal(t, "HS002", rec.StudentID)
	assert.Equal(t, StatusLate, rec.Status)
	assert.Equal(t, 20, rec.LateMinutes)
}

func TestAttemptRecordStudentNotFound(t *testing.T) {
	_, err := AttemptRecord("nobody", at(7, 10), testRoster(t), twoSessions(), nil)
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestAttemptRecordNoScheduleConfigured(t *testing.T) {
	_, err := AttemptRecord(`{"id":"HS001"}`, at(7, 10), testRoster(t), nil, nil)
	assert.ErrorIs(t, err, ErrNoScheduleConfigured)
}

func TestAttemptRecordRejectsSecondScan(t *testing.T) {
	roster := testRoster(t)
	schedules := twoSessions()

	first, err := AttemptRecord(`{"id":"HS001"}`, at(7, 10), roster, schedules, nil)
	assert.NoError(t, err)

	_, err = AttemptRecord(`{"id":"HS001"}`, at(7, 12), roster, schedules, []Record{first})
	var dup *DuplicateError
	assert.ErrorAs(t, err, &dup)
	assert.Equal(t, "Nguyen Van A", dup.StudentName)

	// A different schedule on the same day is a fresh attendance.
	rec, err := AttemptRecord(`{"id":"HS001"}`, at(13, 5), roster, schedules, []Record{first})
	assert.NoError(t, err)
	assert.Equal(t, "SCH002", rec.ScheduleID)
}

func TestAttemptRecordGeneratesUniqueIDs(t *testing.T) {
	roster := testRoster(t)
	schedules := twoSessions()

	a, err := AttemptRecord(`{"id":"HS001"}`, at(7, 10), roster, schedules, nil)
	assert.NoError(t, err)
	b, err := AttemptRecord(`{"id":"HS002"}`, at(7, 10), roster, schedules, nil)
	assert.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}
