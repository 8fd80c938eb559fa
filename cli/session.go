package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"timeslider/config"
	"timeslider/control"
	"timeslider/storage"
	"timeslider/timerange"
	"timeslider/watcher"
)

// session is one control wired to the host: initial props from the sync
// file, notifications into the journal, and sync file changes back in.
type session struct {
	ctl     *control.Control
	journal *storage.Journal
	watch   *watcher.Watcher
	log     *slog.Logger

	mu        sync.Mutex
	listeners []func(timerange.Notification)
}

// newSession builds a control from cfg. extra options are applied last.
func newSession(cfg *config.Config, log *slog.Logger, extra ...control.Option) (*session, error) {
	s := &session{log: log}

	props := timerange.Props{Settings: cfg.Settings()}
	sf, errs, err := storage.ReadSync(cfg.SyncPath(), storage.UTCNow())
	if err != nil {
		return nil, fmt.Errorf("failed to read sync file: %w", err)
	}
	for _, e := range errs {
		log.Warn("skipping sync line", "error", e)
	}
	props.SelectedRange = sf.Selection
	props.ResetBoundary = sf.Boundary

	opts := []control.Option{
		control.WithPeriod(cfg.TickPeriod()),
		control.WithLogger(log),
		control.WithAutoPlay(cfg.Animation.AutoPlay),
		control.WithTimeZone(cfg.TimeZoneMode()),
		control.OnSelectedRangeChanged(s.notify),
		control.OnTimeZoneModeChanged(func(m control.TimeZoneMode) {
			log.Info("timezone mode changed", "mode", m.String())
		}),
	}
	s.ctl = control.New(props, append(opts, extra...)...)

	if cfg.Journal.Enabled {
		s.journal = storage.NewJournal(cfg.JournalPath(), s.ctl.ID())
	}
	if cfg.Sync.Watch {
		s.watch = watcher.New(cfg.SyncPath(), s.apply,
			watcher.WithDebounce(cfg.SettleDelay()),
			watcher.WithLogger(log),
		)
	}
	return s, nil
}

// listen adds a notification listener.
func (s *session) listen(fn func(timerange.Notification)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *session) notify(n timerange.Notification) {
	if s.journal != nil {
		if err := s.journal.Record(n); err != nil {
			s.log.Warn("journal write failed", "error", err)
		}
	}
	s.mu.Lock()
	listeners := append([]func(timerange.Notification)(nil), s.listeners...)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(n)
	}
}

// apply pushes a sync file into the control, boundary first so a new
// selection is clamped against the new boundary.
func (s *session) apply(sf storage.SyncFile) {
	if _, err := s.ctl.SyncResetBoundary(sf.Boundary); err != nil {
		s.log.Warn("boundary sync failed", "error", err)
	}
	if _, err := s.ctl.SyncSelectedRange(sf.Selection); err != nil {
		s.log.Warn("selection sync failed", "error", err)
	}
}

// start follows the sync file until ctx ends.
func (s *session) start(ctx context.Context) {
	if s.watch == nil {
		return
	}
	go func() {
		if err := s.watch.Run(ctx); err != nil {
			s.log.Error("sync watcher stopped", "error", err)
		}
	}()
}

func (s *session) Close() error {
	return s.ctl.Close()
}

// newLogger builds the text logger. Full-screen and prompt-driven commands
// never log to the terminal; without a log file their logs are discarded.
func newLogger(cfg *config.Config, interactive bool) (*slog.Logger, io.Closer, error) {
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		return slog.New(slog.NewTextHandler(f, opts)), f, nil
	}
	if interactive {
		return slog.New(slog.DiscardHandler), io.NopCloser(nil), nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts)), io.NopCloser(nil), nil
}
