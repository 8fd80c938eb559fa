package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"timeslider/config"
	"timeslider/control"
	"timeslider/storage"
	"timeslider/timerange"
	"timeslider/tui"
	"timeslider/tui/components"
)

// FormatDuration formats a duration as "XhYYm".
func FormatDuration(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	return fmt.Sprintf("%dh%02dm", hours, minutes)
}

// ClampDuration returns how much of the entry's selection falls in [start, end).
func ClampDuration(entry storage.Entry, start, end time.Time) time.Duration {
	latestStart := entry.Start
	if start.After(latestStart) {
		latestStart = start
	}

	earliestEnd := entry.End
	if end.Before(earliestEnd) {
		earliestEnd = end
	}

	if !earliestEnd.After(latestStart) {
		return 0
	}
	return earliestEnd.Sub(latestStart)
}

// OriginSummary is the selected time sent by one origin.
type OriginSummary struct {
	Origin   string        `yaml:"origin"`
	Count    int           `yaml:"count"`
	Selected time.Duration `yaml:"selected"`
}

// Summarize aggregates journal entries by origin within [start, end).
// Entries outside the window are not counted.
func Summarize(entries []storage.Entry, start, end time.Time) (time.Duration, []OriginSummary) {
	byOrigin := make(map[string]*OriginSummary)
	var total time.Duration

	for _, entry := range entries {
		chunk := ClampDuration(entry, start, end)
		if chunk <= 0 {
			continue
		}
		total += chunk

		origin := entry.Origin()
		if origin == "" {
			origin = "(unknown)"
		}
		sum, ok := byOrigin[origin]
		if !ok {
			sum = &OriginSummary{Origin: origin}
			byOrigin[origin] = sum
		}
		sum.Count++
		sum.Selected += chunk
	}

	out := make([]OriginSummary, 0, len(byOrigin))
	for _, sum := range byOrigin {
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Origin) < strings.ToLower(out[j].Origin)
	})
	return total, out
}

// Output formats.
const (
	FormatText = "text"
	FormatYAML = "yaml"
)

func checkFormat(format string) error {
	switch format {
	case FormatText, FormatYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (use text or yaml)", format)
	}
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// ViewOptions configures CommandView.
type ViewOptions struct {
	Columns int
	At      string
	Format  string
}

type spanReport struct {
	Start    string `yaml:"start"`
	End      string `yaml:"end"`
	Duration string `yaml:"duration"`
}

type viewReport struct {
	Mode      string      `yaml:"mode"`
	TimeZone  string      `yaml:"timezone"`
	Selected  spanReport  `yaml:"selected"`
	View      spanReport  `yaml:"view"`
	Boundary  *spanReport `yaml:"boundary,omitempty"`
	Animation spanReport  `yaml:"animation"`
	Speed     string      `yaml:"speed"`
}

func newSpanReport(r timerange.Range, loc *time.Location) spanReport {
	return spanReport{
		Start:    r.Start.In(loc).Format(time.RFC3339),
		End:      r.End().In(loc).Format(time.RFC3339),
		Duration: tui.FormatDurationShort(r.Duration),
	}
}

// CommandView prints the control as it would start: the sync file is
// applied as props and the view is sized to opts.Columns strip columns.
func CommandView(cfg *config.Config, opts ViewOptions, w io.Writer) error {
	if err := checkFormat(opts.Format); err != nil {
		return err
	}
	if opts.Columns < 10 {
		opts.Columns = 10
	}

	now := storage.UTCNow()
	sf, _, err := storage.ReadSync(cfg.SyncPath(), now)
	if err != nil {
		return fmt.Errorf("failed to read sync file: %w", err)
	}

	ctl := control.New(timerange.Props{
		SelectedRange: sf.Selection,
		ResetBoundary: sf.Boundary,
		Settings:      cfg.Settings(),
	}, control.WithTimeZone(cfg.TimeZoneMode()))
	defer ctl.Close()

	if opts.At != "" {
		at, err := storage.ParseWhen(opts.At, now.In(time.Local))
		if err != nil {
			return err
		}
		if err := ctl.SelectAt(at); err != nil {
			return err
		}
	}
	if err := ctl.Resize(opts.Columns * tui.PixelsPerColumn); err != nil {
		return err
	}

	snap := ctl.Snapshot()
	st := snap.State
	loc := snap.Location()

	if opts.Format == FormatYAML {
		report := viewReport{
			Mode:      st.Mode.String(),
			TimeZone:  snap.TimeZone.String(),
			Selected:  newSpanReport(st.Selected, loc),
			View:      newSpanReport(st.View, loc),
			Animation: newSpanReport(st.Animation.Range, loc),
			Speed:     st.Animation.Speed.String(),
		}
		if st.Boundary.Clamp {
			b := newSpanReport(st.Boundary.Range, loc)
			report.Boundary = &b
		}
		return writeYAML(w, report)
	}

	fmt.Fprintln(w, components.StatusLine(st, loc, tui.ZoneLabel(snap), tui.FormatDurationShort))
	fmt.Fprintln(w, components.RenderStrip(st, loc, opts.Columns, 1, components.StripStyles{}))
	if st.Boundary.Clamp {
		fmt.Fprintf(w, "boundary %s\n", components.FormatRange(st.Boundary.Range, loc))
	}
	return nil
}

// CommandPush edits the sync file the running control watches. kind is
// "range" or "boundary"; "clear" removes the named directive, or both.
func CommandPush(path, kind string, args []string, w io.Writer) error {
	now := storage.UTCNow()
	sf, _, err := storage.ReadSync(path, now)
	if err != nil {
		return fmt.Errorf("failed to read sync file: %w", err)
	}

	switch kind {
	case "range", "boundary":
		if len(args) != 2 {
			return fmt.Errorf("push %s requires a start and an end", kind)
		}
		span, err := storage.ParseSpan(args[0], args[1], now.In(time.Local))
		if err != nil {
			return err
		}
		if kind == "range" {
			sf.Selection = &span
		} else {
			sf.Boundary = &span
		}
	case "clear":
		which := "all"
		if len(args) > 0 {
			which = args[0]
		}
		switch which {
		case "range":
			sf.Selection = nil
		case "boundary":
			sf.Boundary = nil
		case "all":
			sf.Selection, sf.Boundary = nil, nil
		default:
			return fmt.Errorf("clear takes range, boundary or nothing, got %q", which)
		}
	default:
		return fmt.Errorf("unknown push target %q", kind)
	}

	if err := storage.WriteSync(sf, path); err != nil {
		return fmt.Errorf("failed to write sync file: %w", err)
	}
	fmt.Fprint(w, storage.FormatSync(sf))
	return nil
}

// HistoryOptions configures CommandHistory.
type HistoryOptions struct {
	Origin  string
	Last    int
	Summary bool
	From    string
	To      string
	Format  string
}

type historyRow struct {
	Start    string `yaml:"start"`
	End      string `yaml:"end"`
	Duration string `yaml:"duration"`
	Origin   string `yaml:"origin"`
}

// CommandHistory prints the notification journal.
func CommandHistory(path string, opts HistoryOptions, w io.Writer) error {
	if err := checkFormat(opts.Format); err != nil {
		return err
	}
	entries, err := storage.ReadEntries(path)
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}
	if opts.Origin != "" {
		switch opts.Origin {
		case timerange.OriginUser.String(), timerange.OriginAnimation.String():
		default:
			return fmt.Errorf("unknown origin %q (use %s or %s)", opts.Origin, timerange.OriginUser, timerange.OriginAnimation)
		}
		entries = storage.FilterOrigin(entries, opts.Origin)
	}

	if opts.From != "" || opts.To != "" {
		window, err := historyWindow(opts.From, opts.To)
		if err != nil {
			return err
		}
		entries = storage.Overlapping(entries, window)
	}
	entries = storage.Tail(entries, opts.Last)

	if len(entries) == 0 {
		fmt.Fprintln(w, "No notifications recorded.")
		return nil
	}

	if opts.Summary {
		start, end := entries[0].Start, entries[0].End
		for _, e := range entries[1:] {
			if e.Start.Before(start) {
				start = e.Start
			}
			if e.End.After(end) {
				end = e.End
			}
		}
		total, summaries := Summarize(entries, start, end)
		if opts.Format == FormatYAML {
			return writeYAML(w, summaries)
		}
		for _, s := range summaries {
			fmt.Fprintf(w, "- %s: %d notifications, %s selected\n", s.Origin, s.Count, FormatDuration(s.Selected))
		}
		fmt.Fprintf(w, "Total: %s\n", FormatDuration(total))
		return nil
	}

	rows := make([]historyRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, historyRow{
			Start:    e.Start.In(time.Local).Format("2006-01-02 15:04"),
			End:      e.End.In(time.Local).Format("2006-01-02 15:04"),
			Duration: FormatDuration(e.Duration()),
			Origin:   e.Origin(),
		})
	}
	if opts.Format == FormatYAML {
		return writeYAML(w, rows)
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%s → %s  %7s  %s\n", r.Start, r.End[len("2006-01-02 "):], r.Duration, r.Origin)
	}
	return nil
}

func historyWindow(from, to string) (timerange.Span, error) {
	now := time.Now()
	tz := now.Location()

	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, tz)
	if from != "" {
		parsed, err := storage.ParseDate(from)
		if err != nil {
			return timerange.Span{}, fmt.Errorf("invalid from date: %w", err)
		}
		start = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, tz)
	}
	end := start.AddDate(0, 0, 1)
	if to != "" {
		parsed, err := storage.ParseDate(to)
		if err != nil {
			return timerange.Span{}, fmt.Errorf("invalid to date: %w", err)
		}
		end = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, tz).AddDate(0, 0, 1)
	}
	if !end.After(start) {
		return timerange.Span{}, errors.New("history end date cannot be before start date")
	}
	return timerange.Span{Start: start.UTC(), End: end.UTC()}, nil
}

// CommandSpeeds prints the playback speed table in cycling order.
func CommandSpeeds(cfg *config.Config, w io.Writer) {
	def := cfg.Settings().Speed
	for _, s := range timerange.Speeds {
		marker := " "
		if s == def {
			marker = "*"
		}
		dir := "forward"
		if !s.Forward() {
			dir = "backward"
		}
		fmt.Fprintf(w, "%s %8s  %s\n", marker, s.String(), dir)
	}
}
