package timerange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundDownToFiveMinutes(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"already aligned", time.Date(2024, 3, 1, 10, 15, 0, 0, time.UTC), time.Date(2024, 3, 1, 10, 15, 0, 0, time.UTC)},
		{"minutes truncated", time.Date(2024, 3, 1, 10, 19, 0, 0, time.UTC), time.Date(2024, 3, 1, 10, 15, 0, 0, time.UTC)},
		{"seconds and millis zeroed", time.Date(2024, 3, 1, 10, 20, 59, 999_000_000, time.UTC), time.Date(2024, 3, 1, 10, 20, 0, 0, time.UTC)},
		{"hour boundary", time.Date(2024, 3, 1, 23, 4, 30, 0, time.UTC), time.Date(2024, 3, 1, 23, 0, 0, 0, time.UTC)},
		{"before epoch", time.Unix(-6050, 0).UTC(), time.Unix(-6300, 0).UTC()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoundDownToFiveMinutes(tt.in)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestRoundDownToFiveMinutesIdempotent(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 24*60; i += 7 {
		in := base.Add(time.Duration(i)*time.Minute + 13*time.Second)
		once := RoundDownToFiveMinutes(in)
		twice := RoundDownToFiveMinutes(once)
		require.True(t, once.Equal(twice))
		require.Zero(t, once.Minute()%5)
		require.Zero(t, once.Second())
		require.False(t, once.After(in))
	}
}

func TestRoundDownKeepsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+5:45", 5*3600+45*60)
	in := time.Date(2024, 3, 1, 9, 58, 0, 0, loc)
	got := RoundDownToFiveMinutes(in)
	assert.Equal(t, 55, got.Minute())
	assert.Equal(t, loc, got.Location())
}

func TestWidthToViewDuration(t *testing.T) {
	tests := []struct {
		px   int
		want time.Duration
	}{
		{0, 30 * time.Minute},
		{99, 30 * time.Minute},
		{100, time.Hour},
		{350, 3 * time.Hour},
		{599, 4 * time.Hour},
		{800, 8 * time.Hour},
		{2199, 18 * time.Hour},
		{2200, 21 * time.Hour},
		{5000, 21 * time.Hour},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WidthToViewDuration(tt.px), "width %d", tt.px)
	}
}

func TestWidthToViewDurationMonotonic(t *testing.T) {
	prev := WidthToViewDuration(0)
	steps := map[time.Duration]bool{prev: true}
	for px := 1; px <= 3000; px++ {
		d := WidthToViewDuration(px)
		require.GreaterOrEqual(t, d, prev, "width %d", px)
		steps[d] = true
		prev = d
	}
	assert.Len(t, steps, 12)
}

func TestRangeHelpers(t *testing.T) {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	r := NewRange(start, time.Hour)

	assert.True(t, r.End().Equal(start.Add(time.Hour)))
	assert.True(t, Midpoint(r).Equal(start.Add(30*time.Minute)))
	assert.Equal(t, time.Hour, Distance(r.Start, r.End()))
	assert.True(t, r.Contains(NewRange(start.Add(10*time.Minute), 10*time.Minute)))
	assert.False(t, r.Contains(NewRange(start.Add(55*time.Minute), 10*time.Minute)))

	zero := Range{Start: start}
	assert.True(t, zero.Midpoint().Equal(start))
	assert.Equal(t, time.Duration(0), Distance(start, start))
}

func TestNormalizeDuration(t *testing.T) {
	assert.Equal(t, MinDuration, NormalizeDuration(0))
	assert.Equal(t, MinDuration, NormalizeDuration(-time.Hour))
	assert.Equal(t, MinDuration, NormalizeDuration(30*time.Second))
	assert.Equal(t, 2*time.Minute, NormalizeDuration(2*time.Minute))
}
