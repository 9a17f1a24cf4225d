package engine

// IsDuplicate reports whether an attendance record already exists for the
// exact (student, date, schedule) triple. No time-window fuzziness; the
// comparison ignores every other field.
func IsDuplicate(studentID, date, scheduleID string, existing []Record) bool {
	for _, r := range existing {
		if r.StudentID == studentID && r.Date == date && r.ScheduleID == scheduleID {
			return true
		}
	}
	return false
}
