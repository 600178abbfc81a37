package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/sprintplan/pkg/application"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/planning"
)

var sprintCmd = &cobra.Command{
	Use:   "sprint",
	Short: "Manage the sprint lifecycle",
}

var sprintStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the sprint and the allowed lifecycle actions",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		view, err := services.Sprint.Status(cmd.Context())
		if err != nil {
			return MapError(err)
		}
		s := view.Sprint
		fmt.Println(titleStyle.Render(fmt.Sprintf("%s (%s)", s.Name, s.ID)))
		fmt.Printf("Status:  %s\n", s.Status)
		fmt.Printf("Start:   %s\n", formatTime(s.Start))
		fmt.Printf("End:     %s\n", formatTime(s.End))
		if !s.StartedAt.IsZero() {
			fmt.Printf("Started: %s\n", formatTime(s.StartedAt))
		}
		if !s.ClosedAt.IsZero() {
			fmt.Printf("Closed:  %s\n", formatTime(s.ClosedAt))
		}
		if !s.Now.IsZero() {
			fmt.Printf("Now:     %s (pinned)\n", formatTime(s.Now))
		}
		fmt.Printf("Actions: %s\n", strings.Join(view.Events, ", "))
		return nil
	},
}

func sprintTransitionCmd(use, short string, apply func(*application.SprintService, context.Context) (*planning.Sprint, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := loadServicesForCurrentDir()
			if err != nil {
				return err
			}
			s, err := apply(services.Sprint, cmd.Context())
			if err != nil {
				return MapError(err)
			}
			fmt.Printf("Sprint %s is now %s\n", s.ID, s.Status)
			return nil
		},
	}
}

func init() {
	sprintCmd.AddCommand(sprintStatusCmd)
	sprintCmd.AddCommand(sprintTransitionCmd("start", "Start the sprint", (*application.SprintService).Start))
	sprintCmd.AddCommand(sprintTransitionCmd("close", "Close the sprint", (*application.SprintService).Close))
	sprintCmd.AddCommand(sprintTransitionCmd("reopen", "Reopen a closed sprint", (*application.SprintService).Reopen))
	RootCmd.AddCommand(sprintCmd)
}
