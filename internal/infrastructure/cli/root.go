package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/sprintplan/internal/infrastructure/logging"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var (
	projectPath string
	logLevel    string
	logFile     string
	logCloser   = func() {}
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "sprintplan",
	Version: Version,
	Short:   "Calendar-aware sprint scheduling and burn-down reports",
	Long: `sprintplan schedules the tasks of a sprint on working calendars and
compares the planned burn-down with the work actually logged.

A workspace lives in .sprintplan/ and holds sprint.yaml, tasks.yaml,
calendars.yaml, team.yaml and worklogs.yaml.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger, closer, err := logging.New(logLevel, logFile)
		if err != nil {
			return fmt.Errorf("setup logger: %w", err)
		}
		log.Logger = logger
		logCloser = closer
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logCloser()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It returns the process exit code.
func Execute() int {
	err := RootCmd.Execute()
	if err == nil {
		return 0
	}
	err = MapError(err)
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		if cliErr.Hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", cliErr.Hint)
		}
		return cliErr.ExitCode
	}
	return 1
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&projectPath, "project", "C", "", "Workspace root (defaults to the current directory)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logging.DefaultLevel, "Log level: trace, debug, info, warn, error")
	RootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr")
}
