package pricing

import "time"

const DateLayout = "2006-01-02"

// DateOnly truncates t to its calendar date at UTC midnight.
func DateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Overlaps is the closed interval intersection test on calendar dates.
func Overlaps(aFrom, aTo, bFrom, bTo time.Time) bool {
	return !aFrom.After(bTo) && !aTo.Before(bFrom)
}
