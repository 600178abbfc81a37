package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/sprintplan/pkg/application"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/analytics"
)

var (
	actualJSON bool
	actualDays bool
)

var actualCmd = &cobra.Command{
	Use:   "actual",
	Short: "Show the work logged per author",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		report, err := services.BurnDown.Build(cmd.Context())
		if err != nil {
			return MapError(err)
		}
		if actualJSON || services.Workspace.Config.JSONReports() {
			return printJSON(report.Actual)
		}
		printActual(report)
		return nil
	},
}

func printActual(r *application.Report) {
	day := r.DayLength
	fmt.Println(titleStyle.Render(fmt.Sprintf("Actual work for %s", r.Sprint.Name)))
	if r.Watermark != "" {
		fmt.Println(warningStyle.Render(r.Watermark))
	}

	columns := []table.Column{
		{Title: "Author", Width: 16},
		{Title: "Worked", Width: 10},
		{Title: "Remaining", Width: 10},
		{Title: "Entries", Width: 8},
	}
	all := append(append([]analytics.AuthorContribution(nil), r.Actual.Authors...), r.Actual.Total)
	rows := make([]table.Row, 0, len(all))
	for _, a := range all {
		name := a.AuthorID
		if name == "" {
			name = "Total"
		}
		entries := 0
		for _, d := range a.Days {
			entries += len(d.Transactions)
		}
		rows = append(rows, table.Row{name, formatWork(a.Worked, day), formatWork(a.Remaining, day), strconv.Itoa(entries)})
	}
	fmt.Println(renderTable(columns, rows))

	if !actualDays {
		return
	}
	dayCols := []table.Column{{Title: "Day", Width: 4}, {Title: "Date", Width: 10}}
	for _, a := range all {
		name := a.AuthorID
		if name == "" {
			name = "Total"
		}
		dayCols = append(dayCols, table.Column{Title: name, Width: 10})
	}
	nowIdx := r.NowIndex()
	var dayRows []table.Row
	for i := 0; i < len(r.Actual.Total.Days) && i <= nowIdx; i++ {
		row := table.Row{strconv.Itoa(i), r.Guides.WithoutBuffer.Date(i).Format("Mon 01-02")}
		for _, a := range all {
			cell := ""
			if i < len(a.Days) {
				cell = formatWork(a.Days[i].Cumulative, day)
			}
			row = append(row, cell)
		}
		dayRows = append(dayRows, row)
	}
	fmt.Println(renderTable(dayCols, dayRows))
}

func init() {
	actualCmd.Flags().BoolVar(&actualJSON, "json", false, "Output in JSON format")
	actualCmd.Flags().BoolVar(&actualDays, "days", false, "Show the cumulative series per day")
	RootCmd.AddCommand(actualCmd)
}
