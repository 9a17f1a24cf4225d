package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 9, hour, minute, 30, 0, time.Local)
}

func twoSessions() []Schedule {
	return []Schedule{
		{ID: "SCH002", Label: "Chieu", StartMinute: 13 * 60, GraceMinutes: 15},
		{ID: "SCH001", Label: "Sang", StartMinute: 7 * 60, GraceMinutes: 15},
	}
}

func TestSelectActiveEmpty(t *testing.T) {
	_, ok := SelectActive(at(8, 0), nil)
	assert.False(t, ok)
}

func TestSelectActivePicksLatestOpenWindow(t *testing.T) {
	schedules := twoSessions()

	cases := []struct {
		name string
		now  time.Time
		want string
	}{
		{"mid-morning belongs to the morning session", at(8, 0), "SCH001"},
		{"morning window opens 30 minutes early", at(6, 30), "SCH001"},
		{"just before any window defaults to earliest", at(6, 29), "SCH001"},
		{"afternoon window opens at 12:30", at(12, 30), "SCH002"},
		{"one minute before the afternoon window", at(12, 29), "SCH001"},
		{"late evening still maps to the afternoon session", at(23, 0), "SCH002"},
		{"midnight precedes every window", at(0, 0), "SCH001"},
	}
	for _, tc := range cases {
		got, ok := SelectActive(tc.now, schedules)
		assert.True(t, ok, tc.name)
		assert.Equal(t, tc.want, got.ID, tc.name)
	}
}

func TestSelectActiveIdempotent(t *testing.T) {
	schedules := twoSessions()
	now := at(12, 45)

	first, ok := SelectActive(now, schedules)
	assert.True(t, ok)
	for i := 0; i < 5; i++ {
		again, ok := SelectActive(now, schedules)
		assert.True(t, ok)
		assert.Equal(t, first.ID, again.ID)
	}
}

func TestSelectActiveDoesNotReorderInput(t *testing.T) {
	schedules := twoSessions()
	_, _ = SelectActive(at(8, 0), schedules)
	assert.Equal(t, "SCH002", schedules[0].ID, "caller slice must stay untouched")
}
