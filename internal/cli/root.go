package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"mlfq/internal/logging"
)

var (
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	logger *slog.Logger
)

// NewRootCmd creates the root cobra command for the mlfqsim CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mlfqsim",
		Short: "mlfqsim: multilevel feedback queue scheduler simulator",
		Long:  "mlfqsim boots simulated processes on a single CPU and schedules them with a multilevel feedback queue.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagDebug {
				flagLogLevel = "debug"
			}
			logger = logging.NewLogger(logging.ParseLevel(flagLogLevel), flagLogFormat)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newRunCmd(),
		newParamsCmd(),
	)

	return root
}
