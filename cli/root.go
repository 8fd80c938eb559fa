package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"timeslider/config"
	"timeslider/control"
	"timeslider/repl"
	"timeslider/tui"
)

var (
	cfgFile  string
	cfg      *config.Config
	noColor  bool
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "timeslider",
	Short: "Pick a time range on a zoomable strip, step through it, or play it back",
	Long: `timeslider is an interactive time-range selection control.

It keeps a selected range inside a scrollable view, steps or animates the
selection, and follows a sync file that other programs write to.

Quick Start:
  timeslider                          # Open the full-screen control
  timeslider repl                     # Drive the control from a prompt
  timeslider push range 09:00 +30m    # Move the selection of running controls
  timeslider history --summary        # What was selected, and by whom`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded

		if logLevel != "" {
			cfg.Log.Level = logLevel
			if err := config.ValidateLogConfig(&cfg.Log); err != nil {
				return err
			}
		}
		if noColor || os.Getenv("NO_COLOR") != "" {
			cfg.Display.NoColor = true
		}
		if cfg.Display.NoColor {
			tui.DisableColor()
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd.Context(), false, false)
	},
}

// Execute runs the root command until it returns or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/timeslider/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")

	rootCmd.AddCommand(
		newTUICmd(),
		newReplCmd(),
		newViewCmd(),
		newPushCmd(),
		newHistoryCmd(),
		newSpeedsCmd(),
		newConfigCmd(),
	)
}

func newTUICmd() *cobra.Command {
	var useTcell, noMouse bool
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the full-screen control (the default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), useTcell, noMouse)
		},
	}
	cmd.Flags().BoolVar(&useTcell, "tcell", false, "Render with tcell instead of bubbletea")
	cmd.Flags().BoolVar(&noMouse, "no-mouse", false, "Disable mouse selection")
	return cmd
}

func runTUI(ctx context.Context, useTcell, noMouse bool) error {
	fd := os.Stdout.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return errors.New("the full-screen control needs a terminal; try timeslider repl or timeslider view")
	}

	log, closer, err := newLogger(cfg, true)
	if err != nil {
		return err
	}
	defer closer.Close()

	changes := tui.NewChanges()
	s, err := newSession(cfg, log, control.OnStateChange(changes.Notify))
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.start(ctx)

	opts := tui.Options{Mouse: cfg.Display.Mouse && !noMouse}
	if useTcell {
		return tui.LaunchTerminal(ctx, s.ctl, changes, opts)
	}
	return tui.LaunchTUI(ctx, s.ctl, changes, opts)
}

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Drive the control from an interactive prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, closer, err := newLogger(cfg, true)
			if err != nil {
				return err
			}
			defer closer.Close()

			s, err := newSession(cfg, log)
			if err != nil {
				return err
			}
			defer s.Close()

			shell, err := repl.New(s.ctl)
			if err != nil {
				return err
			}
			s.listen(shell.Notify)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			s.start(ctx)
			return shell.Run(ctx)
		},
	}
}

func newViewCmd() *cobra.Command {
	opts := ViewOptions{Format: FormatText}
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Print the selection and strip the control would start with",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Columns == 0 {
				opts.Columns = terminalColumns()
			}
			return CommandView(cfg, opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVarP(&opts.Columns, "width", "w", 0, "strip width in columns (default: terminal width)")
	cmd.Flags().StringVar(&opts.At, "at", "", "move the selection to start at this time (HH:MM, YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVarP(&opts.Format, "output", "o", FormatText, "output format: text or yaml")
	return cmd
}

// terminalColumns returns the strip width for stdout, or 80 when stdout is
// not a terminal.
func terminalColumns() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 2 {
		return 80
	}
	return width - 2
}

func newPushCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Write the sync file that running controls follow",
		Long: `Write the sync file that running controls follow.

Times are HH:MM (today), YYYY-MM-DDTHH:MM:SS (local), or RFC 3339. An end
of +DURATION is relative to the start.

Examples:
  timeslider push range 09:00 +30m
  timeslider push boundary 2024-03-01T08:00:00 2024-03-01T18:00:00
  timeslider push clear boundary`,
	}
	for _, kind := range []string{"range", "boundary"} {
		cmd.AddCommand(&cobra.Command{
			Use:   kind + " <start> <end>",
			Short: "Push the " + kind,
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return CommandPush(cfg.SyncPath(), kind, args, cmd.OutOrStdout())
			},
		})
	}
	cmd.AddCommand(&cobra.Command{
		Use:       "clear [range|boundary]",
		Short:     "Remove the pushed range, boundary, or both",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"range", "boundary"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return CommandPush(cfg.SyncPath(), "clear", args, cmd.OutOrStdout())
		},
	})
	return cmd
}

func newHistoryCmd() *cobra.Command {
	opts := HistoryOptions{Format: FormatText}
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the selections controls have reported",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return CommandHistory(cfg.JournalPath(), opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&opts.Origin, "origin", "", "only user or animation notifications")
	cmd.Flags().IntVarP(&opts.Last, "last", "n", 0, "only the last N notifications")
	cmd.Flags().BoolVar(&opts.Summary, "summary", false, "summarize by origin")
	cmd.Flags().StringVar(&opts.From, "from", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.To, "to", "", "last day (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&opts.Format, "output", "o", FormatText, "output format: text or yaml")
	return cmd
}

func newSpeedsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "speeds",
		Short: "List playback speeds in cycling order",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			CommandSpeeds(cfg, cmd.OutOrStdout())
		},
	}
}

func newConfigCmd() *cobra.Command {
	var defaults bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if defaults {
				return config.Print(config.Default(), cmd.OutOrStdout())
			}
			return config.Print(cfg, cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&defaults, "defaults", false, "print the built-in defaults instead")
	return cmd
}
