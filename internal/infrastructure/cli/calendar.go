package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/sprintplan/pkg/application"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/calendar"
)

var (
	calendarFrom string
	calendarDays int
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Inspect working calendars",
}

var calendarShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "List calendars, or the working time per day of one calendar",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		in, err := application.LoadInputs(services.Workspace.Repo, services.Settings)
		if err != nil {
			return MapError(err)
		}

		if len(args) == 0 {
			fmt.Println(titleStyle.Render("Calendars"))
			for _, name := range in.Calendars.Names() {
				c, _ := in.Calendars.Named(name)
				marker := " "
				if d, ok := in.Calendars.Default(); ok && d.Name() == name {
					marker = "*"
				}
				fmt.Printf("%s %s\n", marker, c.Describe())
			}
			for _, r := range in.Team.Resources {
				if c, ok := in.Calendars.Resource(r.ID); ok {
					fmt.Printf("  resource %s: %s\n", r.ID, c.Describe())
				}
			}
			return nil
		}

		c, ok := in.Calendars.Named(args[0])
		if !ok {
			if c, ok = in.Calendars.Resource(args[0]); !ok {
				return MapError(fmt.Errorf("%w: %q", calendar.ErrUnknownCalendar, args[0]))
			}
		}
		from := in.Sprint.Start
		if calendarFrom != "" {
			from, err = time.ParseInLocation("2006-01-02", calendarFrom, c.Location())
			if err != nil {
				return NewCLIError("invalid --from", "Use the YYYY-MM-DD format", err)
			}
		}
		printCalendarDays(c, c.Midnight(from), calendarDays, in.DayLength)
		return nil
	},
}

func printCalendarDays(c *calendar.Calendar, first time.Time, days int, day time.Duration) {
	columns := []table.Column{
		{Title: "Date", Width: 14},
		{Title: "Work", Width: 10},
		{Title: "Windows", Width: 24},
		{Title: "Note", Width: 24},
	}
	rows := make([]table.Row, 0, days)
	for i := 0; i < days; i++ {
		date := first.AddDate(0, 0, i)
		var windows string
		for j, w := range c.WorkWindows(date) {
			if j > 0 {
				windows += " "
			}
			windows += w.Start.String() + "-" + w.End.String()
		}
		note, _ := c.Exception(date)
		rows = append(rows, table.Row{date.Format("Mon 2006-01-02"), formatWork(c.DayWork(date), day), windows, note})
	}
	fmt.Println(titleStyle.Render(c.Describe()))
	fmt.Println(renderTable(columns, rows))
}

func init() {
	calendarShowCmd.Flags().StringVar(&calendarFrom, "from", "", "First date to show (YYYY-MM-DD, default sprint start)")
	calendarShowCmd.Flags().IntVar(&calendarDays, "days", 14, "Number of calendar days to show")
	calendarCmd.AddCommand(calendarShowCmd)
	RootCmd.AddCommand(calendarCmd)
}
