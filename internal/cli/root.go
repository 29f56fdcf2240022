package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/dshills/breakcheck/internal/config"
	"github.com/dshills/breakcheck/internal/logging"
)

// Version is the breakcheck release, overridable with -ldflags "-X".
var Version = "0.1.0"

// Exit codes
const (
	ExitSuccess      = 0
	ExitUsageError   = 2
	ExitAuthError    = 3
	ExitRuntimeError = 4
)

// exitError carries the exit code a failed command should produce.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withExit(code int, err error) error {
	return &exitError{code: code, err: err}
}

// app holds the streams and state shared by the command tree.
type app struct {
	stdout   io.Writer
	stderr   io.Writer
	logLevel string
}

// Run executes the root command with os.Args-style args (without the program
// name) and returns an exit code.
func Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	// Flag and argument errors from cobra itself.
	return ExitUsageError
}

func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "breakcheck",
		Short:         "Flag breaking changes in unstaged git modifications",
		Long:          "breakcheck sends the unstaged changes of a git working tree to a chat-completions model and prints its breaking-change analysis.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotEnv(".env"); err != nil {
				return withExit(ExitUsageError, err)
			}
			level := a.logLevel
			if level == "" {
				level = os.Getenv("BREAKCHECK_LOG_LEVEL")
			}
			if level == "" {
				if cfg, err := config.LoadFile(config.Default()); err == nil {
					level = cfg.LogLevel
				}
			}
			logger := logging.NewLogger(a.stderr, logging.ParseLevel(level))
			cmd.SetContext(context.WithValue(cmd.Context(), loggerKey{}, logger))
			logger.Debug("logger initialized", "level", logging.ParseLevel(level))
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		newReviewCommand(a),
		newConfigCommand(a),
		newVersionCommand(a),
	)
	return cmd
}

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print breakcheck version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "breakcheck version %s\n", Version)
		},
	}
}

// loggerKey is a private context key used to store a logger in command contexts.
type loggerKey struct{}

// LoggerFromContext extracts a logger from the context or falls back to a default logger.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return logging.NewLogger(os.Stderr, logging.LevelInfo)
	}
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return logging.NewLogger(os.Stderr, logging.LevelInfo)
}
