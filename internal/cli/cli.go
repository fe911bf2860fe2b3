package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ExitCodeError is returned by a command that has already reported its failure
// to the user and only needs the process to exit with Code.
type ExitCodeError struct {
	Code int
	Err  error
}

func (e *ExitCodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitCodeError) Unwrap() error {
	return e.Err
}

// Fail prints msg and err to w and returns an error that exits with ExitError.
func Fail(w io.Writer, msg string, err error) error {
	fmt.Fprintf(w, "%s: %v\n", msg, err)
	return &ExitCodeError{Code: ExitError, Err: err}
}

// runtimeError marks a failure of the command itself, as opposed to a bad
// invocation.
type runtimeError struct {
	err error
}

func (e *runtimeError) Error() string { return e.err.Error() }
func (e *runtimeError) Unwrap() error { return e.err }

// Runtime marks err as a runtime failure (bad config file, unwritable
// output, invalid setting). Execute reports it and exits with ExitError.
// A nil err is returned unchanged.
func Runtime(err error) error {
	if err == nil {
		return nil
	}
	return &runtimeError{err: err}
}

// Execute runs cmd with args and maps the outcome to an exit code. Errors
// that were not already reported are printed to cmd's error stream. Errors
// marked with Runtime exit with ExitError; anything else comes from cobra's
// flag and argument handling and exits with ExitUsage.
func Execute(cmd *cobra.Command, args []string) int {
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var rtErr *runtimeError
	if errors.As(err, &rtErr) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return ExitError
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	fmt.Fprintf(cmd.ErrOrStderr(), "Run '%s --help' for usage.\n", cmd.CommandPath())
	return ExitUsage
}

// NewLogger builds a console logger writing to w at the given level
// (debug, info, warn, error).
func NewLogger(w io.Writer, level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(w),
		lvl,
	)
	return zap.New(core), nil
}

// NewVersionCmd returns the version command.
func NewVersionCmd(tool string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (%s) built %s\n", tool, version, commit, date)
		},
	}
}
