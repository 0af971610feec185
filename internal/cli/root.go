package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Version information - set at build time via ldflags
var version = "dev"

// NewRootCmd builds the command tree with fresh flag state.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "heapsched",
		Short: "Non-preemptive priority scheduling simulator",
		Long: `heapsched simulates a single processor that runs arriving tasks
to completion, always picking the highest priority queued task when idle.

The queue is an indexed binary heap, so priorities of queued tasks can be
raised or lowered in logarithmic time.`,
		SilenceUsage: true,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "heapsched %s\n", version)
		},
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log every tick")
	rootCmd.AddCommand(versionCmd, newSimulateCmd(), newDemoCmd())
	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// newLogger builds a console logger on w. verbose forces debug level.
func newLogger(w io.Writer, level string, verbose bool) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if verbose {
		lvl = zerolog.DebugLevel
	}
	if w == nil {
		w = os.Stderr
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(lvl).
		With().Timestamp().Logger(), nil
}
