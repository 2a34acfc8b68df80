package core

import (
	"time"
)

const day = 24 * time.Hour

// Period is a half-open time window [Start, End).
type Period struct {
	Start time.Time
	End   time.Time
}

// NewPeriod validates that both ends are set and End lies after Start.
func NewPeriod(start, end time.Time) (Period, error) {
	if start.IsZero() || end.IsZero() {
		return Period{}, NewValidationError(CodeInvalidPeriod, "start and end must be set")
	}

	if !end.After(start) {
		return Period{}, NewValidationError(CodeInvalidPeriod, "end must lie after start")
	}

	return Period{Start: ToTimestamp(start), End: ToTimestamp(end)}, nil
}

// Overlaps implements half-open overlap, touching boundaries do not overlap.
func (p Period) Overlaps(other Period) bool {
	return p.Start.Before(other.End) && other.Start.Before(p.End)
}

// Contains reports whether t lies in [Start, End).
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// DurationDays counts the started 24h periods, at least 1.
func (p Period) DurationDays() int {
	return startedDays(p.End.Sub(p.Start))
}

func startedDays(d time.Duration) int {
	if d <= 0 {
		return 1
	}

	days := int(d / day)
	if d%day != 0 {
		days++
	}

	return days
}

// DaysPast counts the started days between end and t, 0 if t is not after end.
func DaysPast(end, t time.Time) int {
	if !t.After(end) {
		return 0
	}

	return startedDays(t.Sub(end))
}
