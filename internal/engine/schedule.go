package engine

import (
	"sort"
	"time"
)

// preWindowMinutes is how early a schedule opens for scanning before its
// nominal start.
const preWindowMinutes = 30

// SelectActive picks the schedule a scan at now belongs to: the latest
// schedule whose open window (start minus the pre-window) has already
// passed. When now precedes every open window the earliest schedule is
// used, so a scan is always attributed to some schedule once any are
// configured. Returns false only for an empty list.
func SelectActive(now time.Time, schedules []Schedule) (Schedule, bool) {
	if len(schedules) == 0 {
		return Schedule{}, false
	}

	sorted := make([]Schedule, len(schedules))
	copy(sorted, schedules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartMinute < sorted[j].StartMinute
	})

	current := minuteOfDay(now)
	for i := len(sorted) - 1; i >= 0; i-- {
		if current >= sorted[i].StartMinute-preWindowMinutes {
			return sorted[i], true
		}
	}
	return sorted[0], true
}
