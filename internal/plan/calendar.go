package plan

import "time"

// Window returns the seven consecutive calendar days starting at
// start, in local time. The first element stamps a cycle's start date
// and the last its end date when a week is archived.
func Window(start time.Time) []time.Time {
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// NextCycleStart returns the upcoming Sunday for the given reference
// date. A reference that already is a Sunday is returned unchanged.
func NextCycleStart(ref time.Time) time.Time {
	wd := int(ref.Weekday()) // Sunday == 0
	if wd == 0 {
		return ref
	}
	return ref.AddDate(0, 0, 7-wd)
}
