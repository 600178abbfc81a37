package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/sprintplan/pkg/application"
)

var scheduleJSON bool

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Schedule the sprint tasks and show the critical path",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		out, err := services.Schedule.Schedule(cmd.Context())
		if err != nil {
			return MapError(err)
		}
		if scheduleJSON || services.Workspace.Config.JSONReports() {
			return printJSON(scheduleView(out))
		}
		printSchedule(out)
		return nil
	},
}

type scheduledTask struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Resource string `json:"resource,omitempty"`
	Work     string `json:"work"`
	Start    string `json:"start"`
	Finish   string `json:"finish"`
	Slack    string `json:"slack"`
	Critical bool   `json:"critical"`
}

type scheduleDocument struct {
	Sprint       string          `json:"sprint"`
	SprintEnd    string          `json:"sprint_end"`
	CriticalPath []int64         `json:"critical_path"`
	Tasks        []scheduledTask `json:"tasks"`
	Diagnostics  []string        `json:"diagnostics,omitempty"`
}

func scheduleView(out *application.ScheduleOutcome) scheduleDocument {
	day := out.Inputs.DayLength
	doc := scheduleDocument{
		Sprint:       out.Inputs.Sprint.ID,
		SprintEnd:    out.Result.SprintEnd.Format(time.RFC3339),
		CriticalPath: out.Result.CriticalPath,
	}
	for _, t := range out.Graph.Tasks() {
		doc.Tasks = append(doc.Tasks, scheduledTask{
			ID:       t.ID,
			Name:     t.Name,
			Resource: t.ResourceID,
			Work:     formatWork(t.Work, day),
			Start:    formatTime(t.Start),
			Finish:   formatTime(t.Finish),
			Slack:    formatWork(out.Result.Slack[t.ID], day),
			Critical: t.Critical,
		})
	}
	for _, d := range out.Result.Diagnostics {
		doc.Diagnostics = append(doc.Diagnostics, d.String())
	}
	return doc
}

func printSchedule(out *application.ScheduleOutcome) {
	doc := scheduleView(out)

	columns := []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Task", Width: 30},
		{Title: "Resource", Width: 12},
		{Title: "Work", Width: 10},
		{Title: "Start", Width: 16},
		{Title: "Finish", Width: 16},
		{Title: "Slack", Width: 10},
		{Title: "Crit", Width: 4},
	}
	rows := make([]table.Row, 0, len(doc.Tasks))
	for _, t := range doc.Tasks {
		crit := ""
		if t.Critical {
			crit = "*"
		}
		rows = append(rows, table.Row{
			strconv.FormatInt(t.ID, 10), t.Name, t.Resource, t.Work, t.Start, t.Finish, t.Slack, crit,
		})
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("Schedule for %s (%d tasks)", out.Inputs.Sprint.Name, len(rows))))
	fmt.Println(renderTable(columns, rows))
	fmt.Printf("Sprint end:    %s\n", formatTime(out.Result.SprintEnd))
	path := make([]string, len(doc.CriticalPath))
	for i, id := range doc.CriticalPath {
		path[i] = strconv.FormatInt(id, 10)
	}
	fmt.Printf("Critical path: %s\n", strings.Join(path, " -> "))
	printDiagnostics(out.Result.Diagnostics)
}

func init() {
	scheduleCmd.Flags().BoolVar(&scheduleJSON, "json", false, "Output in JSON format")
	RootCmd.AddCommand(scheduleCmd)
}
