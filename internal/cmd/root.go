// Package cmd is the bunkplan command line.
package cmd

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	configcmd "github.com/Iron-Ham/bunkplan/internal/cmd/config"
	"github.com/Iron-Ham/bunkplan/internal/config"
	"github.com/Iron-Ham/bunkplan/internal/errors"
	"github.com/Iron-Ham/bunkplan/internal/logging"
	"github.com/Iron-Ham/bunkplan/internal/tui/styles"
)

// Version is set at build time with -ldflags "-X .../internal/cmd.Version=...".
var Version = "dev"

// app holds what the root command resolves before any subcommand runs.
type app struct {
	cfgFile string
	cfg     *config.Config
	theme   styles.Theme
	logger  *logging.Logger
}

// Execute runs the root command
func Execute() error {
	root, a := newRootCmd()
	defer a.close()
	return a.execute(root)
}

// execute runs root and reports a failure on its error stream.
func (a *app) execute(root *cobra.Command) error {
	err := root.Execute()
	if err != nil {
		a.report(root.ErrOrStderr(), err)
	}
	return err
}

// report prints err and logs it with its severity. A typed error whose
// message is not meant for users is logged in full and replaced on screen
// by a short notice. Untyped errors come from flag parsing and command
// checks and are printed as they are.
func (a *app) report(w io.Writer, err error) {
	severity := errors.GetSeverity(err)
	attrs := []any{"error", err.Error(), "severity", severity.String(), "retryable", errors.IsRetryable(err)}

	var typed errors.BunkplanError
	if errors.As(err, &typed) && !errors.IsUserFacing(err) {
		a.logger.Error("command failed", attrs...)
		if a.cfg != nil && a.cfg.Logging.Enabled {
			fmt.Fprintf(w, "Error: unexpected failure; details are logged in %s\n", a.cfg.Logging.ResolveDir())
		} else {
			fmt.Fprintln(w, "Error: unexpected failure; run 'bunkplan config set logging.enabled true' and retry to record the details")
		}
		return
	}

	switch severity {
	case errors.SeverityDebug, errors.SeverityInfo, errors.SeverityWarning:
		a.logger.Warn("command failed", attrs...)
	default:
		a.logger.Error("command failed", attrs...)
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{logger: logging.NopLogger()}

	rootCmd := &cobra.Command{
		Use:   "bunkplan",
		Short: "Attendance planner: how many classes can you miss?",
		Long: `bunkplan projects class attendance against a target percentage.

It tells you how many more classes you can miss while staying at the
target, or how many you must attend in a row to get back to it, and
simulates what skipping or attending a few more classes would do.

Counts can be typed in directly or pulled from the attendance portal.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	rootCmd.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default is $HOME/.config/bunkplan/config.yaml)")

	rootCmd.AddCommand(
		newPlanCmd(a),
		newScenariosCmd(a),
		newPlannerCmd(a),
		newLoginCmd(a),
		newAttendanceCmd(a),
		newVersionCmd(),
	)
	configcmd.Register(rootCmd)

	return rootCmd, a
}

// setup loads the configuration, the theme and the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if err := config.Init(a.cfgFile); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w\nRun 'bunkplan config edit' to fix it", err)
	}
	a.cfg = cfg

	a.theme, err = styles.Load(cfg.TUI.Theme)
	if err != nil {
		return errors.Wrap(err, "loading theme")
	}

	logger := logging.NopLogger()
	if cfg.Logging.Enabled {
		l, err := logging.NewLogger(cfg.Logging.ResolveDir(), cfg.Logging.Level, cfg.Logging.Rotation())
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: logging disabled: %v\n", err)
		} else {
			logger = l
		}
	}
	a.logger = logger.WithRun(uuid.NewString()).WithCommand(cmd.CommandPath())
	a.logger.Debug("command started", "args", args, "config", configFileUsed())
	return nil
}

func (a *app) close() {
	if err := a.logger.Close(); err != nil {
		fmt.Printf("Warning: failed to close log: %v\n", err)
	}
}
