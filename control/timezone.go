package control

import (
	"fmt"
	"strings"
	"time"
)

// TimeZoneMode selects the zone labels are rendered in. Stored instants are
// unaffected.
type TimeZoneMode uint8

const (
	TimeZoneLocal TimeZoneMode = iota
	TimeZoneUTC
)

func (m TimeZoneMode) String() string {
	if m == TimeZoneUTC {
		return "utc"
	}
	return "local"
}

// Location returns the zone to render in.
func (m TimeZoneMode) Location() *time.Location {
	if m == TimeZoneUTC {
		return time.UTC
	}
	return time.Local
}

// Toggle returns the other mode.
func (m TimeZoneMode) Toggle() TimeZoneMode {
	if m == TimeZoneUTC {
		return TimeZoneLocal
	}
	return TimeZoneUTC
}

// ParseTimeZoneMode accepts "local" or "utc", case-insensitively.
func ParseTimeZoneMode(s string) (TimeZoneMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "local", "":
		return TimeZoneLocal, nil
	case "utc":
		return TimeZoneUTC, nil
	default:
		return TimeZoneLocal, fmt.Errorf("unknown timezone mode %q (want local or utc)", s)
	}
}
