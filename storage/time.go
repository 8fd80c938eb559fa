package storage

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"timeslider/timerange"
)

var timeOfDayPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// UTCNow returns the current UTC time truncated to whole seconds.
func UTCNow() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// ParseDate parses a date string in YYYY-MM-DD format.
func ParseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

// ParseTimeOfDay parses a time string in HH:MM format.
func ParseTimeOfDay(value string) (hour, minute int, err error) {
	m := timeOfDayPattern.FindStringSubmatch(value)
	if m == nil {
		return 0, 0, fmt.Errorf("invalid time format: %s", value)
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid time value: %s", value)
	}
	return hour, minute, nil
}

// ParseWhen parses an instant written as one of:
//   - RFC3339 ("2024-03-01T12:00:00Z")
//   - a zone-less datetime, read in the fallback's location
//   - a date ("2024-03-01"), midnight in the fallback's location
//   - HH:MM on the fallback's day
//   - a signed offset from the fallback ("-30m", "+2h")
//
// An empty value returns fallback.
func ParseWhen(value string, fallback time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	loc := fallback.Location()

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", value, loc); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", value, loc); err == nil {
		return t, nil
	}
	if value[0] == '+' || value[0] == '-' {
		if d, err := time.ParseDuration(value); err == nil {
			return fallback.Add(d), nil
		}
	}

	hour, minute, err := ParseTimeOfDay(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse time: %s", value)
	}
	return time.Date(fallback.Year(), fallback.Month(), fallback.Day(), hour, minute, 0, 0, loc), nil
}

// ParseSpan parses a start and an end written for ParseWhen. An end of the
// form "+45m" is relative to the start instead of the fallback.
func ParseSpan(startRaw, endRaw string, fallback time.Time) (timerange.Span, error) {
	start, err := ParseWhen(startRaw, fallback)
	if err != nil {
		return timerange.Span{}, fmt.Errorf("invalid start: %w", err)
	}
	anchor := fallback
	if strings.HasPrefix(strings.TrimSpace(endRaw), "+") {
		anchor = start
	}
	end, err := ParseWhen(endRaw, anchor)
	if err != nil {
		return timerange.Span{}, fmt.Errorf("invalid end: %w", err)
	}
	if !end.After(start) {
		return timerange.Span{}, fmt.Errorf("end %s is not after start %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return timerange.Span{Start: start, End: end}, nil
}

// ToUTC converts value to UTC. Zone-less values are taken as UTC already.
func ToUTC(value time.Time) time.Time {
	return value.UTC()
}
