package reports

import "time"

// Clipped is a record interval restricted to a reporting window.
type Clipped struct {
	Start time.Time
	End   time.Time
	Days  float64
}

// Clip restricts [start, end) to [windowStart, windowEnd]. An open record
// ends at the end of the day of now. Days is fractional and never negative.
func Clip(start time.Time, end *time.Time, windowStart, windowEnd, now time.Time, loc *time.Location) Clipped {
	var e time.Time
	if end == nil {
		e = EndOfDay(now, loc)
	} else {
		e = *end
	}

	s := start
	if s.Before(windowStart) {
		s = windowStart
	}
	if e.After(windowEnd) {
		e = windowEnd
	}

	days := e.Sub(s).Hours() / 24
	if days < 0 {
		days = 0
	}
	return Clipped{Start: s, End: e, Days: days}
}

func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// EndOfDay is the last millisecond of the day of t in loc.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	return StartOfDay(t, loc).AddDate(0, 0, 1).Add(-time.Millisecond)
}
