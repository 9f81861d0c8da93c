package stats

import "time"

// dayKeyLayout is a locale-independent calendar-day key, e.g. "2024-03-11".
const dayKeyLayout = "2006-01-02"

// StartOfWeek returns midnight of the Monday on or before t, in t's location.
// Sunday counts as the last day of the week, not the first.
func StartOfWeek(t time.Time) time.Time {
	diff := (int(t.Weekday()) + 6) % 7 // Monday as 0
	year, month, day := t.AddDate(0, 0, -diff).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// EndOfWeek returns the exclusive end of the week starting at start,
// i.e. the following Monday at midnight.
func EndOfWeek(start time.Time) time.Time {
	return start.AddDate(0, 0, 7)
}

// DayKey returns the calendar-day bucket key for t, in t's location.
// Callers bucketing instants must convert them to the wanted timezone
// first, otherwise entries near midnight land in the wrong day.
func DayKey(t time.Time) string {
	return t.Format(dayKeyLayout)
}
