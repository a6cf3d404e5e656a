package cmd

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/warp/growth-engine/config"
	"github.com/warp/growth-engine/growth"
	"github.com/warp/growth-engine/logger"
	"github.com/warp/growth-engine/report"
)

// options are the persistent flags.
type options struct {
	cfgFile string
	verbose bool
	format  string
	logMode string
}

// ErrInterrupted is returned by Execute when ctx is cancelled, usually by
// SIGINT or SIGTERM, before the command finishes.
var ErrInterrupted = errors.New("interrupted")

// app is what every command runs against, built once flags are parsed.
type app struct {
	opts     options
	fs       afero.Fs
	settings config.Settings
	report   *report.Reporter

	mu  sync.Mutex // guards log against syncLog from Execute
	log *logger.Logger
}

// reportedError marks an error already written through the reporter.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// usageError marks a flag or argument the user got wrong.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// NewRootCmd builds the command tree. Scenario files are read from fs.
func NewRootCmd(fs afero.Fs) *cobra.Command {
	return (&app{fs: fs}).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "growthcalc",
		Short: "Population growth calculator",
		Long: `growthcalc projects populations growing at a percentage rate.

Models:
  naive          linear growth on the initial population
  sophisticated  compound growth in discrete fission events (--frequency)

Run without a command for the interactive menu.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			a.syncLog()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.interactive(cmd)
		},
	}

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	root.PersistentFlags().StringVar(&a.opts.cfgFile, "config", "", "config file (.toml, .yaml or .json)")
	root.PersistentFlags().BoolVarP(&a.opts.verbose, "verbose", "v", false, "debug logging on stderr")
	root.PersistentFlags().StringVar(&a.opts.format, "format", string(report.FormatHuman), "output format: human or json")
	root.PersistentFlags().StringVar(&a.opts.logMode, "log-mode", "dev", "log encoding: dev (console) or prod (JSON)")

	root.AddCommand(
		a.projectCmd(),
		a.timeToCmd(),
		a.compareCmd(),
		a.tableCmd(),
		a.sweepCmd(),
		a.convertCmd(),
		a.unitsCmd(),
		a.configCmd(),
		a.presetsCmd(),
		a.runCmd(),
		a.interactiveCmd(),
	)
	return root
}

// Execute runs the command tree against the process's streams and
// filesystem. Errors not already shown are printed to stderr.
//
// A blocked stdin read cannot be interrupted, so when ctx is cancelled
// Execute flushes the log and returns ErrInterrupted without waiting for the
// command.
func Execute(ctx context.Context) error {
	a := &app{fs: afero.NewOsFs()}
	return a.execute(ctx, a.rootCmd())
}

func (a *app) execute(ctx context.Context, root *cobra.Command) error {
	errc := make(chan error, 1)
	go func() { errc <- root.ExecuteContext(ctx) }()

	var err error
	select {
	case err = <-errc:
	case <-ctx.Done():
	}
	a.syncLog()
	if ctx.Err() != nil {
		return ErrInterrupted
	}
	if err != nil {
		var shown *reportedError
		if !errors.As(err, &shown) {
			fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		}
	}
	return err
}

// ExitCode maps err to the process exit status: 2 for rejected input, 130
// when interrupted, 1 for anything else.
func ExitCode(err error) int {
	var usage *usageError
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrInterrupted):
		return 130
	case growth.IsInputError(err), errors.As(err, &usage):
		return 2
	}
	return 1
}

// setup loads settings and builds the logger and reporter.
func (a *app) setup(cmd *cobra.Command) error {
	settings, err := config.Load(a.opts.cfgFile)
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(a.opts.format)
	if err != nil {
		return err
	}
	log, err := logger.New(a.opts.logMode, a.opts.verbose)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	a.settings = settings
	a.mu.Lock()
	a.log = log.With("run_id", uuid.NewString(), "command", cmd.Name())
	a.mu.Unlock()
	a.report = report.New(cmd.OutOrStdout(), settings).WithFormat(format)
	a.log.Debug("command started", "config", a.opts.cfgFile, "format", format)
	return nil
}

// run wraps a command body so its errors are shown through the reporter.
func (a *app) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return a.fail(err)
		}
		return nil
	}
}

// syncLog flushes the logger, if setup got as far as building it.
func (a *app) syncLog() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.log != nil {
		a.log.Sync()
	}
}

// fail shows err through the reporter and marks it shown.
func (a *app) fail(err error) error {
	a.log.Debug("command failed", "error", err)
	if werr := a.report.Error(err); werr != nil {
		return werr
	}
	return &reportedError{err: err}
}
