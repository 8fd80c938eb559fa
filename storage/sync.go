package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"timeslider/timerange"
)

// SyncEnvVar overrides the sync file location.
const SyncEnvVar = "TIMESLIDER_SYNC_PATH"

// Sync file directives.
const (
	DirectiveRange    = "range"
	DirectiveBoundary = "boundary"
)

// SyncFile is the host-side props feed: the selection and reset boundary the
// host wants the control to show. Either may be absent.
type SyncFile struct {
	Selection *timerange.Span
	Boundary  *timerange.Span
}

// DefaultSyncPath returns the sync file path from the environment or
// ~/.timeslider/sync.txt.
func DefaultSyncPath() string {
	if v := os.Getenv(SyncEnvVar); v != "" {
		return filepath.Clean(v)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".timeslider", "sync.txt")
	}
	return filepath.Join(home, ".timeslider", "sync.txt")
}

// ParseSyncLine parses "range START END" or "boundary START END". START and
// END take any form ParseSpan accepts, relative forms resolved against now.
func ParseSyncLine(raw string, now time.Time) (string, timerange.Span, error) {
	fields := strings.Fields(raw)
	if len(fields) != 3 {
		return "", timerange.Span{}, fmt.Errorf("sync line must be '<range|boundary> START END': %q", raw)
	}
	directive := strings.ToLower(fields[0])
	if directive != DirectiveRange && directive != DirectiveBoundary {
		return "", timerange.Span{}, fmt.Errorf("unknown sync directive %q", fields[0])
	}
	span, err := ParseSpan(fields[1], fields[2], now)
	if err != nil {
		return "", timerange.Span{}, fmt.Errorf("%s: %w", directive, err)
	}
	return directive, span, nil
}

// ParseSync parses a whole sync file. The last line of each directive wins.
// Malformed lines are returned as errors after the rest is parsed.
func ParseSync(content string, now time.Time) (SyncFile, []error) {
	var sf SyncFile
	var errs []error
	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		directive, span, err := ParseSyncLine(line, now)
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", i+1, err))
			continue
		}
		switch directive {
		case DirectiveRange:
			sf.Selection = &span
		case DirectiveBoundary:
			sf.Boundary = &span
		}
	}
	return sf, errs
}

// ReadSync reads the sync file. A missing file yields an empty SyncFile.
func ReadSync(path string, now time.Time) (SyncFile, []error, error) {
	if path == "" {
		path = DefaultSyncPath()
	}
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return SyncFile{}, nil, nil
		}
		return SyncFile{}, nil, fmt.Errorf("failed to read sync file: %w", err)
	}
	sf, errs := ParseSync(string(content), now)
	return sf, errs, nil
}

// FormatSync renders sf in the sync file format.
func FormatSync(sf SyncFile) string {
	var b strings.Builder
	write := func(directive string, s *timerange.Span) {
		if s == nil {
			return
		}
		fmt.Fprintf(&b, "%s %s %s\n", directive,
			ToUTC(s.Start).Format(time.RFC3339),
			ToUTC(s.End).Format(time.RFC3339),
		)
	}
	write(DirectiveBoundary, sf.Boundary)
	write(DirectiveRange, sf.Selection)
	return b.String()
}

// WriteSync replaces the sync file. The content is written to a temporary
// file and renamed so watchers never observe a partial file.
func WriteSync(sf SyncFile, path string) error {
	if path == "" {
		path = DefaultSyncPath()
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create sync directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".sync-*")
	if err != nil {
		return fmt.Errorf("failed to create temp sync file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(FormatSync(sf)); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write sync file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write sync file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace sync file: %w", err)
	}
	return nil
}
