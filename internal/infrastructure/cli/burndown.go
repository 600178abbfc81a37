package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/sprintplan/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/sprintplan/pkg/application"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/analytics"
)

var (
	burndownJSON   bool
	burndownNoSave bool
)

var burndownCmd = &cobra.Command{
	Use:   "burndown [workspace...]",
	Short: "Compute the burn-down guides and actual work of the sprint",
	Long: `Burndown schedules the sprint, builds the planned guides with and without
delivery buffers, aggregates the logged work and writes .sprintplan/report.json.

With workspace arguments, the reports of several sprints are computed in
parallel and a summary line is printed for each.`,
	RunE: runBurndown,
}

func runBurndown(cmd *cobra.Command, args []string) error {
	services, err := loadServicesForCurrentDir()
	if err != nil {
		return err
	}
	asJSON := burndownJSON || services.Workspace.Config.JSONReports()

	if len(args) > 0 {
		roots := make([]string, len(args))
		for i, a := range args {
			if roots[i], err = resolveRoot(a); err != nil {
				return err
			}
		}
		reports, err := services.BurnDown.BuildAll(cmd.Context(), wiring.Repositories(roots))
		if err != nil {
			return MapError(err)
		}
		if asJSON {
			return printJSON(reports)
		}
		printBurndownSummary(roots, reports)
		return nil
	}

	var report *application.Report
	if burndownNoSave {
		report, err = services.BurnDown.Build(cmd.Context())
	} else {
		report, err = services.BurnDown.BuildAndSave(cmd.Context())
	}
	if err != nil {
		return MapError(err)
	}
	if asJSON {
		return printJSON(report)
	}
	printBurndown(report)
	return nil
}

func printBurndown(r *application.Report) {
	title := fmt.Sprintf("Burn-down for %s", r.Sprint.Name)
	if r.Closed {
		title += " (closed)"
	}
	fmt.Println(titleStyle.Render(title))
	if r.Watermark != "" {
		fmt.Println(warningStyle.Render(r.Watermark))
	}

	day := r.DayLength
	without := r.Guides.WithoutBuffer.Remaining()
	with := r.Guides.WithBuffer.Remaining()
	nowIdx := r.NowIndex()
	variance := make(map[int]analytics.VariancePoint, len(r.Variance))
	for _, v := range r.Variance {
		variance[v.Day] = v
	}

	columns := []table.Column{
		{Title: "Day", Width: 4},
		{Title: "Date", Width: 10},
		{Title: "Guide", Width: 10},
		{Title: "Guide+Buf", Width: 10},
		{Title: "Worked", Width: 10},
		{Title: "Variance", Width: 10},
	}
	rows := make([]table.Row, 0, len(without))
	for i := range without {
		worked, diff := "", ""
		if v, ok := variance[i]; ok && i <= nowIdx {
			worked = formatWork(v.Actual, day)
			diff = formatWork(v.Variance, day)
		}
		rows = append(rows, table.Row{
			strconv.Itoa(i),
			r.Guides.WithoutBuffer.Date(i).Format("Mon 01-02"),
			formatWork(without[i], day),
			formatWork(with[i], day),
			worked,
			diff,
		})
	}
	fmt.Println(renderTable(columns, rows))
	printMetrics(r)
	printDiagnostics(r.Diagnostics)
}

func printMetrics(r *application.Report) {
	m := r.Metrics
	day := r.DayLength
	fmt.Printf("Now:               %s\n", formatTime(r.Now))
	fmt.Printf("Estimated:         %s\n", formatWork(m.Estimated, day))
	fmt.Printf("Worked:            %s\n", formatWork(m.Worked, day))
	fmt.Printf("Remaining:         %s\n", formatWork(m.Remaining, day))
	fmt.Printf("Progress:          %s (expected %s)\n", formatPercent(m.Progress), formatPercent(m.ExpectedProgress))

	delay := fmt.Sprintf("Delay:             %s (%s)", formatWork(m.ManDelay, day), m.Trend)
	switch {
	case m.IsNegative():
		delay = badStyle.Render(delay)
	case m.IsPositive():
		delay = goodStyle.Render(delay)
	}
	fmt.Println(delay)
	fmt.Printf("Efficiency:        %s (optimal %s)\n", formatPercent(m.Efficiency), formatPercent(m.OptimalEfficiency))
	fmt.Printf("Release:           %s\n", formatTime(m.ExtrapolatedRelease))
}

func printBurndownSummary(roots []string, reports []*application.Report) {
	columns := []table.Column{
		{Title: "Sprint", Width: 20},
		{Title: "Estimated", Width: 10},
		{Title: "Worked", Width: 10},
		{Title: "Progress", Width: 9},
		{Title: "Delay", Width: 10},
		{Title: "Trend", Width: 12},
		{Title: "Path", Width: 40},
	}
	rows := make([]table.Row, 0, len(reports))
	for i, r := range reports {
		m := r.Metrics
		rows = append(rows, table.Row{
			r.Sprint.Name,
			formatWork(m.Estimated, r.DayLength),
			formatWork(m.Worked, r.DayLength),
			formatPercent(m.Progress),
			formatWork(m.ManDelay, r.DayLength),
			string(m.Trend),
			roots[i],
		})
	}
	fmt.Println(titleStyle.Render(fmt.Sprintf("Burn-down overview (%d sprints)", len(reports))))
	fmt.Println(renderTable(columns, rows))
}

func init() {
	burndownCmd.Flags().BoolVar(&burndownJSON, "json", false, "Output in JSON format")
	burndownCmd.Flags().BoolVar(&burndownNoSave, "no-save", false, "Do not write report.json")
	RootCmd.AddCommand(burndownCmd)
}
