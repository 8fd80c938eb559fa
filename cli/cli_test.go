package cli

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeslider/config"
	"timeslider/storage"
	"timeslider/timerange"
)

var noon = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Sync.Path = filepath.Join(dir, "sync.txt")
	cfg.Journal.Path = filepath.Join(dir, "journal.txt")
	cfg.Display.TimeZone = "utc"
	return cfg
}

func entry(start time.Time, d time.Duration, origin string) storage.Entry {
	return storage.Entry{Start: start, End: start.Add(d), Text: "#" + origin + " id"}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0h00m"},
		{5 * time.Minute, "0h05m"},
		{90 * time.Minute, "1h30m"},
		{25 * time.Hour, "25h00m"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestClampDuration(t *testing.T) {
	e := entry(noon, time.Hour, "user")

	assert.Equal(t, time.Hour, ClampDuration(e, noon.Add(-time.Hour), noon.Add(2*time.Hour)))
	assert.Equal(t, 30*time.Minute, ClampDuration(e, noon.Add(30*time.Minute), noon.Add(2*time.Hour)))
	assert.Equal(t, 15*time.Minute, ClampDuration(e, noon.Add(-time.Hour), noon.Add(15*time.Minute)))
	assert.Zero(t, ClampDuration(e, noon.Add(time.Hour), noon.Add(2*time.Hour)))
}

func TestSummarizeByOrigin(t *testing.T) {
	entries := []storage.Entry{
		entry(noon, 30*time.Minute, "user"),
		entry(noon.Add(time.Hour), 10*time.Minute, "animation"),
		entry(noon.Add(2*time.Hour), 10*time.Minute, "animation"),
		{Start: noon, End: noon.Add(5 * time.Minute), Text: "no tags"},
		entry(noon.Add(48*time.Hour), time.Hour, "user"),
	}

	total, sums := Summarize(entries, noon, noon.Add(24*time.Hour))

	assert.Equal(t, 55*time.Minute, total)
	require.Len(t, sums, 3)
	assert.Equal(t, OriginSummary{Origin: "(unknown)", Count: 1, Selected: 5 * time.Minute}, sums[0])
	assert.Equal(t, OriginSummary{Origin: "animation", Count: 2, Selected: 20 * time.Minute}, sums[1])
	assert.Equal(t, OriginSummary{Origin: "user", Count: 1, Selected: 30 * time.Minute}, sums[2])
}

func TestCommandPushRangeAndBoundary(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	require.NoError(t, CommandPush(cfg.SyncPath(), "range", []string{"2024-03-01T12:00:00Z", "+30m"}, &out))
	require.NoError(t, CommandPush(cfg.SyncPath(), "boundary", []string{"2024-03-01T08:00:00Z", "2024-03-01T18:00:00Z"}, &out))

	sf, errs, err := storage.ReadSync(cfg.SyncPath(), noon)
	require.NoError(t, err)
	assert.Empty(t, errs)
	require.NotNil(t, sf.Selection)
	require.NotNil(t, sf.Boundary)
	assert.True(t, sf.Selection.Start.Equal(noon))
	assert.True(t, sf.Selection.End.Equal(noon.Add(30*time.Minute)))
	assert.True(t, sf.Boundary.End.Equal(noon.Add(6*time.Hour)))
	assert.Contains(t, out.String(), "boundary 2024-03-01T08:00:00Z 2024-03-01T18:00:00Z")

	require.NoError(t, CommandPush(cfg.SyncPath(), "clear", []string{"range"}, &out))
	sf, _, err = storage.ReadSync(cfg.SyncPath(), noon)
	require.NoError(t, err)
	assert.Nil(t, sf.Selection)
	assert.NotNil(t, sf.Boundary)

	require.NoError(t, CommandPush(cfg.SyncPath(), "clear", nil, &out))
	sf, _, err = storage.ReadSync(cfg.SyncPath(), noon)
	require.NoError(t, err)
	assert.Nil(t, sf.Boundary)
}

func TestCommandPushErrors(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	assert.Error(t, CommandPush(cfg.SyncPath(), "range", []string{"12:00"}, &out))
	assert.Error(t, CommandPush(cfg.SyncPath(), "range", []string{"2024-03-01T12:00:00Z", "2024-03-01T11:00:00Z"}, &out))
	assert.Error(t, CommandPush(cfg.SyncPath(), "clear", []string{"everything"}, &out))
	assert.Error(t, CommandPush(cfg.SyncPath(), "window", nil, &out))
}

func TestCommandViewText(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, CommandPush(cfg.SyncPath(), "range", []string{"2024-03-01T12:00:00Z", "+30m"}, &bytes.Buffer{}))

	var out bytes.Buffer
	require.NoError(t, CommandView(cfg, ViewOptions{Columns: 48, Format: FormatText}, &out))

	text := out.String()
	assert.Contains(t, text, "STEP")
	assert.Contains(t, text, "2024-03-01 12:00 → 12:30")
	assert.Contains(t, text, "UTC")
	assert.Contains(t, text, "█")
	assert.NotContains(t, text, "boundary")
}

func TestCommandViewYAML(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, CommandPush(cfg.SyncPath(), "range", []string{"2024-03-01T12:00:00Z", "+30m"}, &bytes.Buffer{}))
	require.NoError(t, CommandPush(cfg.SyncPath(), "boundary", []string{"2024-03-01T08:00:00Z", "2024-03-01T18:00:00Z"}, &bytes.Buffer{}))

	var out bytes.Buffer
	require.NoError(t, CommandView(cfg, ViewOptions{Columns: 80, Format: FormatYAML}, &out))

	text := out.String()
	assert.Contains(t, text, "mode: step")
	assert.Contains(t, text, "timezone: utc")
	assert.Contains(t, text, "2024-03-01T12:00:00Z")
	assert.Contains(t, text, "duration: 30m")
	assert.Contains(t, text, "duration: 8h")
	assert.Contains(t, text, "boundary:")
}

func TestCommandViewAt(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, CommandPush(cfg.SyncPath(), "range", []string{"2024-03-01T12:00:00Z", "+30m"}, &bytes.Buffer{}))

	var out bytes.Buffer
	require.NoError(t, CommandView(cfg, ViewOptions{Columns: 80, At: "2024-03-01T15:07:00Z", Format: FormatText}, &out))
	assert.Contains(t, out.String(), "2024-03-01 15:05 → 15:35")

	assert.Error(t, CommandView(cfg, ViewOptions{Columns: 80, Format: "json"}, &out))
	assert.Error(t, CommandView(cfg, ViewOptions{Columns: 80, At: "soon", Format: FormatText}, &out))
}

func TestCommandHistory(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, storage.WriteEntries([]storage.Entry{
		entry(noon, 30*time.Minute, "user"),
		entry(noon.Add(time.Hour), 10*time.Minute, "animation"),
		entry(noon.Add(2*time.Hour), 10*time.Minute, "animation"),
	}, cfg.JournalPath()))

	var out bytes.Buffer
	require.NoError(t, CommandHistory(cfg.JournalPath(), HistoryOptions{Format: FormatText}, &out))
	assert.Equal(t, 3, bytes.Count(out.Bytes(), []byte("\n")))
	assert.Contains(t, out.String(), "0h30m  user")

	out.Reset()
	require.NoError(t, CommandHistory(cfg.JournalPath(), HistoryOptions{Origin: "animation", Last: 1, Format: FormatYAML}, &out))
	assert.Equal(t, 1, bytes.Count(out.Bytes(), []byte("origin: animation")))
	assert.NotContains(t, out.String(), "user")

	out.Reset()
	require.NoError(t, CommandHistory(cfg.JournalPath(), HistoryOptions{Summary: true, Format: FormatText}, &out))
	assert.Contains(t, out.String(), "- animation: 2 notifications, 0h20m selected")
	assert.Contains(t, out.String(), "Total: 0h50m")

	assert.Error(t, CommandHistory(cfg.JournalPath(), HistoryOptions{Origin: "external", Format: FormatText}, &out))
	assert.Error(t, CommandHistory(cfg.JournalPath(), HistoryOptions{From: "yesterday", Format: FormatText}, &out))
}

func TestCommandHistoryEmpty(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer
	require.NoError(t, CommandHistory(cfg.JournalPath(), HistoryOptions{Format: FormatText}, &out))
	assert.Equal(t, "No notifications recorded.\n", out.String())
}

func TestCommandSpeeds(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer
	CommandSpeeds(cfg, &out)

	lines := bytes.Split(bytes.TrimRight(out.Bytes(), "\n"), []byte("\n"))
	assert.Len(t, lines, len(timerange.Speeds))
	assert.Contains(t, out.String(), "*     5m/s  forward")
	assert.Contains(t, out.String(), "-1h/s  backward")
}

func TestSessionWiring(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, CommandPush(cfg.SyncPath(), "range", []string{"2024-03-01T12:00:00Z", "+30m"}, &bytes.Buffer{}))

	s, err := newSession(cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	defer s.Close()

	snap := s.ctl.Snapshot()
	assert.True(t, snap.State.Selected.Start.Equal(noon))
	assert.Equal(t, 30*time.Minute, snap.State.Selected.Duration)

	var heard []timerange.Notification
	s.listen(func(n timerange.Notification) { heard = append(heard, n) })

	require.NoError(t, s.ctl.Step(true))
	require.Len(t, heard, 1)
	assert.Equal(t, timerange.OriginUser, heard[0].Origin)

	entries, err := storage.ReadEntries(cfg.JournalPath())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "user", entries[0].Origin())
	assert.True(t, entries[0].Start.Equal(noon.Add(30*time.Minute)))

	// Pushed updates apply without being echoed to the journal.
	sel := timerange.Span{Start: noon.Add(3 * time.Hour), End: noon.Add(4 * time.Hour)}
	boundary := timerange.Span{Start: noon, End: noon.Add(6 * time.Hour)}
	s.apply(storage.SyncFile{Selection: &sel, Boundary: &boundary})

	snap = s.ctl.Snapshot()
	assert.True(t, snap.State.Selected.Equal(sel.Range()))
	assert.True(t, snap.State.Boundary.Clamp)
	assert.Len(t, heard, 1)

	entries, err = storage.ReadEntries(cfg.JournalPath())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSessionWithoutJournal(t *testing.T) {
	cfg := testConfig(t)
	cfg.Journal.Enabled = false
	cfg.Sync.Watch = false

	s, err := newSession(cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	defer s.Close()

	assert.Nil(t, s.journal)
	assert.Nil(t, s.watch)
	require.NoError(t, s.ctl.Step(true))

	entries, err := storage.ReadEntries(cfg.JournalPath())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNewLogger(t *testing.T) {
	cfg := testConfig(t)
	cfg.Log.File = filepath.Join(t.TempDir(), "timeslider.log")
	cfg.Log.Level = "debug"

	log, closer, err := newLogger(cfg, true)
	require.NoError(t, err)
	log.Debug("hello", "k", "v")
	require.NoError(t, closer.Close())

	cfg.Log.File = ""
	cfg.Log.Level = "loud"
	_, _, err = newLogger(cfg, false)
	assert.Error(t, err)
}
