package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyWithinGrace(t *testing.T) {
	morning := Schedule{ID: "SCH001", StartMinute: 7 * 60, GraceMinutes: 15}

	status, late := Classify(at(7, 10), morning)
	assert.Equal(t, StatusOnTime, status)
	assert.Equal(t, 0, late)
}

func TestClassifyLateMeasuredFromStart(t *testing.T) {
	morning := Schedule{ID: "SCH001", StartMinute: 7 * 60, GraceMinutes: 15}

	status, late := Classify(at(7, 20), morning)
	assert.Equal(t, StatusLate, status)
	assert.Equal(t, 20, late, "lateness counts from the nominal start, not grace end")
}

func TestClassifyGraceBoundary(t *testing.T) {
	morning := Schedule{ID: "SCH001", StartMinute: 7 * 60, GraceMinutes: 15}

	// Exactly at grace end is still on-time; one minute past flips to late.
	status, late := Classify(at(7, 15), morning)
	assert.Equal(t, StatusOnTime, status)
	assert.Equal(t, 0, late)

	status, late = Classify(at(7, 16), morning)
	assert.Equal(t, StatusLate, status)
	assert.Equal(t, 16, late)
}

func TestClassifyZeroGrace(t *testing.T) {
	strict := Schedule{ID: "SCH003", StartMinute: 13 * 60, GraceMinutes: 0}

	status, _ := Classify(at(13, 0), strict)
	assert.Equal(t, StatusOnTime, status)

	status, late := Classify(at(13, 1), strict)
	assert.Equal(t, StatusLate, status)
	assert.Equal(t, 1, late)
}

func TestClassifyMonotonic(t *testing.T) {
	morning := Schedule{ID: "SCH001", StartMinute: 7 * 60, GraceMinutes: 15}

	prevLate := 0
	transitions := 0
	prevStatus := StatusOnTime
	for m := 0; m < 120; m++ {
		status, late := Classify(at(7, 0).Add(time.Duration(m)*time.Minute), morning)
		assert.GreaterOrEqual(t, late, prevLate, "minute %d", m)
		if status != prevStatus {
			transitions++
			assert.Equal(t, 16, m, "status must flip exactly one minute past grace end")
		}
		prevStatus = status
		prevLate = late
	}
	assert.Equal(t, 1, transitions)
}
