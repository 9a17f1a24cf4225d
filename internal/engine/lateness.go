package engine

import "time"

// Classify computes the on-time/late status of a scan against a schedule.
// A scan is late only strictly after the grace window ends; arriving at the
// exact grace boundary still counts as on-time. Late minutes are measured
// from the nominal start, not the grace boundary, so the reported number is
// the total minutes past the official start.
func Classify(now time.Time, schedule Schedule) (Status, int) {
	graceEnd := schedule.StartMinute + schedule.GraceMinutes
	current := minuteOfDay(now)
	if current > graceEnd {
		return StatusLate, current - schedule.StartMinute
	}
	return StatusOnTime, 0
}
