// Package config loads timeslider settings from TOML with environment
// overrides.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"timeslider/control"
	"timeslider/storage"
	"timeslider/timerange"
)

// Environment variables that override the config file.
const (
	EnvConfig      = "TIMESLIDER_CONFIG"
	EnvSyncPath    = storage.SyncEnvVar
	EnvJournalPath = storage.JournalEnvVar
	EnvLogLevel    = "TIMESLIDER_LOG_LEVEL"
	EnvTimeZone    = "TIMESLIDER_TIMEZONE"
)

// SelectionConfig holds the initial selection.
type SelectionConfig struct {
	DurationMinutes int `toml:"duration_minutes"` // Selection length when the host supplies none
}

// DefaultSelectionConfig returns selection defaults.
func DefaultSelectionConfig() SelectionConfig {
	return SelectionConfig{DurationMinutes: 5}
}

// ValidateSelectionConfig validates the selection section.
func ValidateSelectionConfig(cfg *SelectionConfig) error {
	if cfg.DurationMinutes < 1 {
		return fmt.Errorf("duration_minutes must be at least 1, got %d", cfg.DurationMinutes)
	}
	return nil
}

// ViewConfig holds the view window.
type ViewConfig struct {
	DurationMinutes int `toml:"duration_minutes"` // View length before the first resize
}

// DefaultViewConfig returns view defaults.
func DefaultViewConfig() ViewConfig {
	return ViewConfig{DurationMinutes: 240}
}

// ValidateViewConfig validates the view section.
func ValidateViewConfig(cfg *ViewConfig) error {
	if cfg.DurationMinutes < 1 {
		return fmt.Errorf("duration_minutes must be at least 1, got %d", cfg.DurationMinutes)
	}
	return nil
}

// AnimationConfig holds playback settings.
type AnimationConfig struct {
	DurationMinutes int    `toml:"duration_minutes"` // Animation window length
	Speed           string `toml:"speed"`            // e.g. "5m/s", "-1h/s"
	TickMillis      int    `toml:"tick_ms"`          // Wall-clock interval between ticks
	AutoPlay        bool   `toml:"auto_play"`        // Start playing when animation mode is entered
}

// DefaultAnimationConfig returns playback defaults.
func DefaultAnimationConfig() AnimationConfig {
	return AnimationConfig{
		DurationMinutes: 120,
		Speed:           timerange.DefaultSpeed.String(),
		TickMillis:      1000,
		AutoPlay:        false,
	}
}

// ValidateAnimationConfig validates the animation section.
func ValidateAnimationConfig(cfg *AnimationConfig) error {
	if cfg.DurationMinutes < 1 {
		return fmt.Errorf("duration_minutes must be at least 1, got %d", cfg.DurationMinutes)
	}
	if _, err := timerange.ParseSpeed(cfg.Speed); err != nil {
		return fmt.Errorf("speed: %w", err)
	}
	if cfg.TickMillis < 50 {
		return fmt.Errorf("tick_ms must be at least 50, got %d", cfg.TickMillis)
	}
	return nil
}

// SyncConfig holds the external sync feed.
type SyncConfig struct {
	Path           string `toml:"path"`        // Sync file; empty means the default location
	Watch          bool   `toml:"watch"`       // Follow the file while a UI runs
	DebounceMillis int    `toml:"debounce_ms"` // Minimum gap between accepted external selections
	SettleMillis   int    `toml:"settle_ms"`   // Quiet time before a changed file is read
}

// DefaultSyncConfig returns sync defaults.
func DefaultSyncConfig() SyncConfig {
	return SyncConfig{
		Watch:          true,
		DebounceMillis: 1000,
		SettleMillis:   100,
	}
}

// ValidateSyncConfig validates the sync section.
func ValidateSyncConfig(cfg *SyncConfig) error {
	if cfg.DebounceMillis < 0 {
		return fmt.Errorf("debounce_ms must be non-negative, got %d", cfg.DebounceMillis)
	}
	if cfg.SettleMillis < 0 {
		return fmt.Errorf("settle_ms must be non-negative, got %d", cfg.SettleMillis)
	}
	return nil
}

// JournalConfig holds the notification journal.
type JournalConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"` // Journal file; empty means the default location
}

// DefaultJournalConfig returns journal defaults.
func DefaultJournalConfig() JournalConfig {
	return JournalConfig{Enabled: true}
}

// DisplayConfig holds presentation settings.
type DisplayConfig struct {
	TimeZone string `toml:"timezone"` // local or utc
	NoColor  bool   `toml:"no_color"`
	Mouse    bool   `toml:"mouse"`
}

// DefaultDisplayConfig returns display defaults.
func DefaultDisplayConfig() DisplayConfig {
	return DisplayConfig{TimeZone: "local", Mouse: true}
}

// ValidateDisplayConfig validates the display section.
func ValidateDisplayConfig(cfg *DisplayConfig) error {
	if _, err := control.ParseTimeZoneMode(cfg.TimeZone); err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	return nil
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
	File  string `toml:"file"`  // Log destination while a full-screen UI runs; empty discards
}

// DefaultLogConfig returns logging defaults.
func DefaultLogConfig() LogConfig {
	return LogConfig{Level: "info"}
}

// ValidateLogConfig validates the log section.
func ValidateLogConfig(cfg *LogConfig) error {
	if _, err := ParseLevel(cfg.Level); err != nil {
		return err
	}
	return nil
}

// Config is the complete configuration.
type Config struct {
	Selection SelectionConfig `toml:"selection"`
	View      ViewConfig      `toml:"view"`
	Animation AnimationConfig `toml:"animation"`
	Sync      SyncConfig      `toml:"sync"`
	Journal   JournalConfig   `toml:"journal"`
	Display   DisplayConfig   `toml:"display"`
	Log       LogConfig       `toml:"log"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Selection: DefaultSelectionConfig(),
		View:      DefaultViewConfig(),
		Animation: DefaultAnimationConfig(),
		Sync:      DefaultSyncConfig(),
		Journal:   DefaultJournalConfig(),
		Display:   DefaultDisplayConfig(),
		Log:       DefaultLogConfig(),
	}
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	if env := os.Getenv(EnvConfig); env != "" {
		return ExpandHome(env)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "timeslider", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = os.TempDir()
	}
	return filepath.Join(home, ".config", "timeslider", "config.toml")
}

// ExpandHome replaces a leading ~/ with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// Load reads the config at path (DefaultPath when empty). A missing file is
// not an error. Precedence is environment, then file, then defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()

	if data, err := os.ReadFile(path); err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if v := os.Getenv(EnvSyncPath); v != "" {
		cfg.Sync.Path = v
	}
	if v := os.Getenv(EnvJournalPath); v != "" {
		cfg.Journal.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvTimeZone); v != "" {
		cfg.Display.TimeZone = v
	}

	cfg.Sync.Path = ExpandHome(cfg.Sync.Path)
	cfg.Journal.Path = ExpandHome(cfg.Journal.Path)
	cfg.Log.File = ExpandHome(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	checks := []struct {
		section string
		err     error
	}{
		{"selection", ValidateSelectionConfig(&c.Selection)},
		{"view", ValidateViewConfig(&c.View)},
		{"animation", ValidateAnimationConfig(&c.Animation)},
		{"sync", ValidateSyncConfig(&c.Sync)},
		{"display", ValidateDisplayConfig(&c.Display)},
		{"log", ValidateLogConfig(&c.Log)},
	}
	for _, check := range checks {
		if check.err != nil {
			return fmt.Errorf("%s: %w", check.section, check.err)
		}
	}
	return nil
}

// Settings converts the config into state defaults.
func (c *Config) Settings() timerange.Settings {
	speed, err := timerange.ParseSpeed(c.Animation.Speed)
	if err != nil {
		speed = timerange.DefaultSpeed
	}
	return timerange.Settings{
		SelectionDuration: time.Duration(c.Selection.DurationMinutes) * time.Minute,
		ViewDuration:      time.Duration(c.View.DurationMinutes) * time.Minute,
		AnimationDuration: time.Duration(c.Animation.DurationMinutes) * time.Minute,
		Speed:             speed,
		ExternalDebounce:  time.Duration(c.Sync.DebounceMillis) * time.Millisecond,
	}
}

// TickPeriod returns the playback tick interval.
func (c *Config) TickPeriod() time.Duration {
	return time.Duration(c.Animation.TickMillis) * time.Millisecond
}

// SettleDelay returns how long a changed sync file must stay quiet.
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.Sync.SettleMillis) * time.Millisecond
}

// TimeZoneMode returns the configured display zone.
func (c *Config) TimeZoneMode() control.TimeZoneMode {
	m, _ := control.ParseTimeZoneMode(c.Display.TimeZone)
	return m
}

// SyncPath returns the sync file, falling back to the default location.
func (c *Config) SyncPath() string {
	if c.Sync.Path != "" {
		return c.Sync.Path
	}
	return storage.DefaultSyncPath()
}

// JournalPath returns the journal file, falling back to the default location.
func (c *Config) JournalPath() string {
	if c.Journal.Path != "" {
		return c.Journal.Path
	}
	return storage.DefaultJournalPath()
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", name)
	}
	return level, nil
}

// Print writes cfg to w in TOML format.
func Print(cfg *Config, w io.Writer) error {
	fmt.Fprintln(w, "# timeslider configuration")
	fmt.Fprintln(w)
	return toml.NewEncoder(w).Encode(cfg)
}
