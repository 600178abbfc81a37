package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	initStart string
	initDays  int
)

var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Initialize a new sprint workspace",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		name := "sprint-1"
		if len(args) > 0 {
			name = args[0]
		}
		loc := services.Settings.Location
		start := time.Now().In(loc)
		if initStart != "" {
			start, err = time.ParseInLocation("2006-01-02", initStart, loc)
			if err != nil {
				return NewCLIError("invalid --start", "Use the YYYY-MM-DD format", err)
			}
		}

		sprint, err := services.Init.InitializeWorkspace(cmd.Context(), name, start, initDays)
		if err != nil {
			return MapError(fmt.Errorf("failed to initialize workspace: %w", err))
		}

		fmt.Printf("Initialized sprint %s (%s)\n", sprint.Name, sprint.ID)
		fmt.Printf("  Start: %s\n", formatTime(sprint.Start))
		fmt.Printf("  End:   %s\n", formatTime(sprint.End))
		fmt.Println("Add tasks to .sprintplan/tasks.yaml and people to .sprintplan/team.yaml.")
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initStart, "start", "", "First day of the sprint (YYYY-MM-DD, default today)")
	initCmd.Flags().IntVar(&initDays, "days", 10, "Number of working days")
	RootCmd.AddCommand(initCmd)
}
