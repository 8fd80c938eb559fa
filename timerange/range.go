package timerange

import (
	"fmt"
	"time"
)

// MinDuration is the shortest selection the control accepts.
const MinDuration = time.Minute

// Range is a half-open interval [Start, Start+Duration).
type Range struct {
	Start    time.Time
	Duration time.Duration
}

// NewRange returns a Range with the duration clamped to MinDuration.
func NewRange(start time.Time, d time.Duration) Range {
	return Range{Start: start, Duration: NormalizeDuration(d)}
}

// End returns the exclusive end of the range.
func (r Range) End() time.Time {
	return r.Start.Add(r.Duration)
}

// Midpoint returns the instant halfway through the range.
func (r Range) Midpoint() time.Time {
	return r.Start.Add(r.Duration / 2)
}

// Shift returns the range moved by d.
func (r Range) Shift(d time.Duration) Range {
	return Range{Start: r.Start.Add(d), Duration: r.Duration}
}

// Contains reports whether other lies completely inside r.
func (r Range) Contains(other Range) bool {
	return !other.Start.Before(r.Start) && !other.End().After(r.End())
}

// Equal reports whether both ranges start at the same instant and have the same length.
func (r Range) Equal(other Range) bool {
	return r.Start.Equal(other.Start) && r.Duration == other.Duration
}

// IsZero reports whether the range was never initialized.
func (r Range) IsZero() bool {
	return r.Start.IsZero() && r.Duration == 0
}

// Span converts the range to its start/end form.
func (r Range) Span() Span {
	return Span{Start: r.Start, End: r.End()}
}

func (r Range) String() string {
	return fmt.Sprintf("%s .. %s", r.Start.Format(time.RFC3339), r.End().Format(time.RFC3339))
}

// Span is the start/end form of a range exchanged with the host.
type Span struct {
	Start time.Time
	End   time.Time
}

// Range converts the span into a normalized Range.
func (s Span) Range() Range {
	return NewRange(s.Start, Distance(s.Start, s.End))
}

// Midpoint returns the instant halfway through r.
func Midpoint(r Range) time.Time {
	return r.Midpoint()
}

// Distance returns b - a.
func Distance(a, b time.Time) time.Duration {
	return b.Sub(a)
}

// NormalizeDuration clamps d to MinDuration. Sub-minute and non-positive
// durations are a normalization case, not an error.
func NormalizeDuration(d time.Duration) time.Duration {
	if d < MinDuration {
		return MinDuration
	}
	return d
}
