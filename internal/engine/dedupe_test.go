package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateExactTriple(t *testing.T) {
	existing := []Record{
		{StudentID: "HS001", Date: "2026-03-09", ScheduleID: "SCH001"},
		{StudentID: "HS002", Date: "2026-03-09", ScheduleID: "SCH001"},
	}

	assert.True(t, IsDuplicate("HS001", "2026-03-09", "SCH001", existing))
	assert.False(t, IsDuplicate("HS001", "2026-03-09", "SCH002", existing))
	assert.False(t, IsDuplicate("HS001", "2026-03-10", "SCH001", existing))
	assert.False(t, IsDuplicate("HS003", "2026-03-09", "SCH001", existing))
	assert.False(t, IsDuplicate("HS001", "2026-03-09", "SCH001", nil))
}

func TestIsDuplicateOrderIndependent(t *testing.T) {
	a := Record{StudentID: "HS001", Date: "2026-03-09", ScheduleID: "SCH001"}
	b := Record{StudentID: "HS002", Date: "2026-03-09", ScheduleID: "SCH002"}

	assert.True(t, IsDuplicate("HS002", "2026-03-09", "SCH002", []Record{a, b}))
	assert.True(t, IsDuplicate("HS002", "2026-03-09", "SCH002", []Record{b, a}))
}

func TestIsDuplicateIgnoresOtherFields(t *testing.T) {
	// Status, lateness and the denormalized display fields play no part in
	// the duplicate decision.
	existing := []Record{{
		StudentID:   "HS001",
		StudentName: "someone else entirely",
		Date:        "2026-03-09",
		ScheduleID:  "SCH001",
		Status:      StatusLate,
		LateMinutes: 45,
	}}
	assert.True(t, IsDuplicate("HS001", "2026-03-09", "SCH001", existing))
}
