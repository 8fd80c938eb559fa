package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"timeslider/timerange"
)

// JournalEnvVar overrides the journal location.
const JournalEnvVar = "TIMESLIDER_JOURNAL_PATH"

// Entry is one outbound selection notification.
type Entry struct {
	Start time.Time
	End   time.Time
	Text  string
}

// NewEntry records n as sent by the control with id controlID.
func NewEntry(n timerange.Notification, controlID string) Entry {
	return Entry{
		Start: n.Range.Start,
		End:   n.Range.End,
		Text:  fmt.Sprintf("#%s %s", n.Origin, controlID),
	}
}

// Duration returns the length of the recorded selection.
func (e Entry) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// Span returns the recorded selection.
func (e Entry) Span() timerange.Span {
	return timerange.Span{Start: e.Start, End: e.End}
}

// Tags extracts all #tag words from the entry text.
func (e Entry) Tags() []string {
	var tags []string
	for _, word := range strings.Fields(e.Text) {
		if strings.HasPrefix(word, "#") && len(word) > 1 {
			tags = append(tags, word[1:])
		}
	}
	return tags
}

// Origin returns the first tag, which NewEntry sets to the notification
// origin, or "" when the text carries no tag.
func (e Entry) Origin() string {
	tags := e.Tags()
	if len(tags) == 0 {
		return ""
	}
	return tags[0]
}

// DefaultJournalPath returns the journal path from the environment or
// ~/.timeslider/journal.txt.
func DefaultJournalPath() string {
	if v := os.Getenv(JournalEnvVar); v != "" {
		return filepath.Clean(v)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".timeslider", "journal.txt")
	}
	return filepath.Join(home, ".timeslider", "journal.txt")
}

// FormatEntry formats an entry as one journal line: ISO_START ISO_END|text.
func FormatEntry(e Entry) string {
	return fmt.Sprintf("%s %s|%s",
		ToUTC(e.Start).Format(time.RFC3339),
		ToUTC(e.End).Format(time.RFC3339),
		strings.TrimSpace(e.Text),
	)
}

// ParseEntry parses a single journal line.
func ParseEntry(raw string) (Entry, error) {
	times, text, ok := strings.Cut(raw, "|")
	if !ok {
		return Entry{}, fmt.Errorf("entry must contain '|' separator")
	}

	cols := strings.Fields(times)
	if len(cols) != 2 {
		return Entry{}, fmt.Errorf("entry must have start and end column")
	}

	start, err := time.Parse(time.RFC3339, cols[0])
	if err != nil {
		return Entry{}, fmt.Errorf("invalid start time: %w", err)
	}
	end, err := time.Parse(time.RFC3339, cols[1])
	if err != nil {
		return Entry{}, fmt.Errorf("invalid end time: %w", err)
	}
	if end.Before(start) {
		return Entry{}, fmt.Errorf("end time before start time")
	}

	return Entry{Start: start, End: end, Text: strings.TrimSpace(text)}, nil
}

// ReadEntries reads all entries from the journal. Empty lines, comment
// lines and malformed lines are skipped. A missing file is an empty journal.
func ReadEntries(path string) ([]Entry, error) {
	if path == "" {
		path = DefaultJournalPath()
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}

	entries := []Entry{}
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entry, err := ParseEntry(line)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// WriteEntries replaces the journal with entries.
func WriteEntries(entries []Entry, path string) error {
	if path == "" {
		path = DefaultJournalPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create journal directory: %w", err)
	}

	var b strings.Builder
	for _, e := range entries {
		b.WriteString(FormatEntry(e))
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write journal: %w", err)
	}
	return nil
}

// AppendEntry appends a single entry to the journal.
func AppendEntry(e Entry, path string) error {
	if path == "" {
		path = DefaultJournalPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create journal directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatEntry(e) + "\n"); err != nil {
		return fmt.Errorf("failed to append to journal: %w", err)
	}
	return nil
}

// Tail returns the last n entries, or all of them when n <= 0.
func Tail(entries []Entry, n int) []Entry {
	if n <= 0 || n >= len(entries) {
		return entries
	}
	return entries[len(entries)-n:]
}

// FilterOrigin keeps entries whose origin tag is origin.
func FilterOrigin(entries []Entry, origin string) []Entry {
	if origin == "" {
		return entries
	}
	var out []Entry
	for _, e := range entries {
		if e.Origin() == origin {
			out = append(out, e)
		}
	}
	return out
}

// Overlapping returns the entries whose selection overlaps span.
func Overlapping(entries []Entry, span timerange.Span) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Start.Before(span.End) && e.End.After(span.Start) {
			out = append(out, e)
		}
	}
	return out
}

// Journal appends notifications of one control to a journal file. It is
// safe for use from control callbacks running on several goroutines.
type Journal struct {
	mu        sync.Mutex
	path      string
	controlID string
}

// NewJournal returns a journal writing to path for the given control.
func NewJournal(path, controlID string) *Journal {
	if path == "" {
		path = DefaultJournalPath()
	}
	return &Journal{path: path, controlID: controlID}
}

// Path returns the journal file.
func (j *Journal) Path() string {
	return j.path
}

// Record appends n.
func (j *Journal) Record(n timerange.Notification) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return AppendEntry(NewEntry(n, j.controlID), j.path)
}
