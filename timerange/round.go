package timerange

import "time"

// RoundDownToFiveMinutes truncates t to the previous five minute boundary
// and zeroes seconds and sub-second parts. Minutes are read in t's location.
func RoundDownToFiveMinutes(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	off := time.Duration(t.Minute()%5)*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
	return t.Add(-off)
}

// widthSteps maps an exclusive upper pixel bound to a view duration.
// Keeps pixel-per-minute density roughly constant while the strip resizes.
var widthSteps = []struct {
	below    int
	duration time.Duration
}{
	{100, 30 * time.Minute},
	{200, 1 * time.Hour},
	{300, 2 * time.Hour},
	{400, 3 * time.Hour},
	{600, 4 * time.Hour},
	{800, 6 * time.Hour},
	{1000, 8 * time.Hour},
	{1200, 10 * time.Hour},
	{1500, 12 * time.Hour},
	{1800, 15 * time.Hour},
	{2200, 18 * time.Hour},
}

// MaxViewDuration is the view duration for containers at least 2200px wide.
const MaxViewDuration = 21 * time.Hour

// WidthToViewDuration maps a container width in pixels to a view duration.
func WidthToViewDuration(px int) time.Duration {
	for _, step := range widthSteps {
		if px < step.below {
			return step.duration
		}
	}
	return MaxViewDuration
}
