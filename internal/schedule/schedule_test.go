package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseClock(t *testing.T) {
	cases := map[string]int{
		"00:00": 0,
		"07:00": 420,
		"7:05":  425,
		"13:30": 810,
		"23:59": 1439,
	}
	for in, want := range cases {
		got, err := ParseClock(in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "morning", "24:00", "12:60", "-1:00"} {
		_, err := ParseClock(in)
		assert.Error(t, err, in)
	}
}

func TestValidate(t *testing.T) {
	ok := Schedule{Label: "Sang", StartTime: "07:00", GraceMinutes: 15}
	assert.NoError(t, ok.Validate())

	assert.Error(t, Schedule{StartTime: "07:00"}.Validate(), "missing label")
	assert.Error(t, Schedule{Label: "x", StartTime: "late"}.Validate(), "bad clock")
	assert.Error(t, Schedule{Label: "x", StartTime: "07:00", GraceMinutes: -1}.Validate(), "negative grace")
}

func TestEngineAllSkipsUnparsable(t *testing.T) {
	in := []Schedule{
		{ID: "a", Label: "Sang", StartTime: "07:00", GraceMinutes: 15},
		{ID: "bad", Label: "Broken", StartTime: "soon"},
		{ID: "b", Label: "Chieu", StartTime: "13:00", GraceMinutes: 10},
	}
	out := EngineAll(in)
	assert.Len(t, out, 2)
	assert.Equal(t, 420, out[0].StartMinute)
	assert.Equal(t, 780, out[1].StartMinute)
}
