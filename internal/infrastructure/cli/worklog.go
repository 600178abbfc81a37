package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/sprintplan/pkg/domain/planning"
)

var (
	logAuthor    string
	logTask      int64
	logStart     string
	logSpent     string
	logComment   string
	logRemaining string
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Record logged work and remaining estimates",
}

var logRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Log time spent on a task",
	Example: `  sprintplan log record --author alice --task 3 --spent "2h 30m"
  sprintplan log record --author bob --task 5 --start "2024-03-05 13:00" --spent 1d`,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		day := services.Settings.DayLength()
		est, err := planning.ParseEstimateWithDay(logSpent, day)
		if err != nil {
			return NewCLIError("invalid --spent", "Use an estimate such as '2h 30m' or 1d", err)
		}
		spent := est.Duration()
		start := time.Now().In(services.Settings.Location).Add(-spent)
		if logStart != "" {
			start, err = time.ParseInLocation("2006-01-02 15:04", logStart, services.Settings.Location)
			if err != nil {
				return NewCLIError("invalid --start", "Use the 'YYYY-MM-DD HH:MM' format", err)
			}
		}

		e, err := services.Worklog.Record(cmd.Context(), logAuthor, logTask, start, spent, logComment)
		if err != nil {
			return MapError(err)
		}
		fmt.Printf("Logged %s on task %d for %s (%s)\n", formatWork(e.TimeSpent, day), e.TaskID, e.AuthorID, e.ID)
		return nil
	},
}

var logRemainingCmd = &cobra.Command{
	Use:   "remaining",
	Short: "Set the remaining work of an author on a task",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		day := services.Settings.DayLength()
		est, err := planning.ParseEstimateWithDay(logRemaining, day)
		if err != nil {
			return NewCLIError("invalid --remaining", "Use an estimate such as 4h or '1d 2h'", err)
		}
		remaining := est.Duration()
		if err := services.Worklog.SetRemaining(cmd.Context(), logAuthor, logTask, remaining); err != nil {
			return MapError(err)
		}
		fmt.Printf("Remaining work of %s on task %d is %s\n", logAuthor, logTask, formatWork(remaining, day))
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{logRecordCmd, logRemainingCmd} {
		c.Flags().StringVar(&logAuthor, "author", "", "Resource ID of the author")
		c.Flags().Int64Var(&logTask, "task", 0, "Task ID")
		_ = c.MarkFlagRequired("author")
		_ = c.MarkFlagRequired("task")
	}
	logRecordCmd.Flags().StringVar(&logStart, "start", "", "Start of the work (YYYY-MM-DD HH:MM, default now minus the time spent)")
	logRecordCmd.Flags().StringVar(&logSpent, "spent", "", "Time spent, e.g. '2h 30m' or 1d")
	logRecordCmd.Flags().StringVar(&logComment, "comment", "", "Optional comment")
	_ = logRecordCmd.MarkFlagRequired("spent")
	logRemainingCmd.Flags().StringVar(&logRemaining, "remaining", "", "Remaining work, e.g. 4h")
	_ = logRemainingCmd.MarkFlagRequired("remaining")

	logCmd.AddCommand(logRecordCmd)
	logCmd.AddCommand(logRemainingCmd)
	RootCmd.AddCommand(logCmd)
}
