package billing

import (
	"fmt"
	"time"
)

// periodDateLayout is the calendar-date form invoice periods travel in.
const periodDateLayout = "2006-01-02"

// Period is an inclusive invoice date range. The bounds are local calendar
// days: From starts at local midnight and To ends at the last nanosecond of
// its day. Parsing a YYYY-MM-DD string through a UTC-assuming constructor
// shifts the day for western timezones, which is exactly the off-by-one this
// type exists to prevent.
type Period struct {
	from time.Time
	to   time.Time
}

// ParsePeriod builds a Period from YYYY-MM-DD strings interpreted in the
// local timezone.
func ParsePeriod(from, to string) (Period, error) {
	return ParsePeriodIn(from, to, time.Local)
}

// ParsePeriodIn is ParsePeriod with an explicit location, which keeps the
// boundary behaviour testable independent of the host timezone.
func ParsePeriodIn(from, to string, loc *time.Location) (Period, error) {
	start, err := time.ParseInLocation(periodDateLayout, from, loc)
	if err != nil {
		return Period{}, fmt.Errorf("billing: parse period start %q: %w", from, err)
	}
	end, err := time.ParseInLocation(periodDateLayout, to, loc)
	if err != nil {
		return Period{}, fmt.Errorf("billing: parse period end %q: %w", to, err)
	}
	if end.Before(start) {
		return Period{}, fmt.Errorf("billing: period end %s before start %s", to, from)
	}
	return NewPeriod(start, end), nil
}

// NewPeriod normalises two timestamps to the start of from's day and the end
// of to's day in from's location.
func NewPeriod(from, to time.Time) Period {
	loc := from.Location()
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	end := time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 999999999, loc)
	return Period{from: start, to: end}
}

// Start returns the inclusive lower bound.
func (p Period) Start() time.Time { return p.from }

// End returns the inclusive upper bound.
func (p Period) End() time.Time { return p.to }

// Contains reports whether ts falls within the period, bounds included.
func (p Period) Contains(ts time.Time) bool {
	return !ts.Before(p.from) && !ts.After(p.to)
}
