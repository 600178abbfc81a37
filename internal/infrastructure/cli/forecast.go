package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var forecastJSON bool

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Show progress, delay and the extrapolated release of the sprint",
	Long: `Forecast compares the logged work with the planned guide at the reference
instant (sprint.yaml "now", the close time of a closed sprint, or the wall
clock) and extrapolates the release from the delay.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		report, err := services.BurnDown.Build(cmd.Context())
		if err != nil {
			return MapError(err)
		}
		if forecastJSON || services.Workspace.Config.JSONReports() {
			return printJSON(report.Metrics)
		}
		fmt.Println(titleStyle.Render(fmt.Sprintf("Forecast for %s", report.Sprint.Name)))
		fmt.Printf("Sprint end:        %s\n", formatTime(report.Sprint.End))
		printMetrics(report)
		return nil
	},
}

func init() {
	forecastCmd.Flags().BoolVar(&forecastJSON, "json", false, "Output in JSON format")
	RootCmd.AddCommand(forecastCmd)
}
