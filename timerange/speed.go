package timerange

import (
	"fmt"
	"strings"
	"time"
)

// Speed is the amount of selection time advanced per second of wall-clock
// time. The sign selects the playback direction.
type Speed time.Duration

// DefaultSpeed is the playback speed after construction and after ResetAll.
const DefaultSpeed = Speed(5 * time.Minute)

// Speeds is the ordered set walked by CycleSpeed. Zero is not part of the
// cycle, so direction flips between -1m/s and 1m/s.
var Speeds = []Speed{
	Speed(-time.Hour),
	Speed(-30 * time.Minute),
	Speed(-10 * time.Minute),
	Speed(-5 * time.Minute),
	Speed(-time.Minute),
	Speed(time.Minute),
	Speed(5 * time.Minute),
	Speed(10 * time.Minute),
	Speed(30 * time.Minute),
	Speed(time.Hour),
}

// Abs returns the magnitude of s as a duration.
func (s Speed) Abs() time.Duration {
	if s < 0 {
		return -time.Duration(s)
	}
	return time.Duration(s)
}

// Forward reports whether s plays toward later instants.
func (s Speed) Forward() bool {
	return s > 0
}

func (s Speed) String() string {
	sign := ""
	if s < 0 {
		sign = "-"
	}
	return sign + shortDuration(s.Abs()) + "/s"
}

// NextSpeed returns the neighbour of s in Speeds, wrapping at both ends.
// A speed outside the table snaps to the nearest entry in the requested
// direction.
func NextSpeed(s Speed, up bool) Speed {
	n := len(Speeds)
	for i, v := range Speeds {
		if v == s {
			if up {
				return Speeds[(i+1)%n]
			}
			return Speeds[(i-1+n)%n]
		}
	}
	if up {
		for _, v := range Speeds {
			if v > s {
				return v
			}
		}
		return Speeds[0]
	}
	for i := n - 1; i >= 0; i-- {
		if Speeds[i] < s {
			return Speeds[i]
		}
	}
	return Speeds[n-1]
}

// ParseSpeed parses values such as "5m/s", "-1h" or "90s/s".
func ParseSpeed(value string) (Speed, error) {
	raw := strings.TrimSuffix(strings.TrimSpace(value), "/s")
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid speed %q: %w", value, err)
	}
	if d == 0 {
		return 0, fmt.Errorf("invalid speed %q: must not be zero", value)
	}
	return Speed(d), nil
}

// shortDuration renders whole hours and minutes without trailing zero units.
func shortDuration(d time.Duration) string {
	switch {
	case d == 0:
		return "0s"
	case d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	case d%time.Minute == 0:
		return fmt.Sprintf("%dm", d/time.Minute)
	default:
		return d.String()
	}
}
