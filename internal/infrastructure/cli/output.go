package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/sprintplan/pkg/domain/diagnostic"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/planning"
)

const timeLayout = "Mon 01-02 15:04"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	goodStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	badStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// renderTable renders a static, non-interactive table.
func renderTable(columns []table.Column, rows []table.Row) string {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(len(rows)+1),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Bold(true)
	s.Selected = lipgloss.NewStyle() // Disable selection style for static view
	t.SetStyles(s)
	return t.View()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(timeLayout)
}

// formatWork renders a duration in estimate notation, "0" for nothing.
func formatWork(d, day time.Duration) string {
	if d < 0 {
		return "-" + formatWork(-d, day)
	}
	if s := planning.FormatEstimate(d, day); s != "" {
		return s
	}
	return "0"
}

func formatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

func printDiagnostics(l diagnostic.List) {
	if l.Empty() {
		return
	}
	fmt.Println()
	fmt.Println(warningStyle.Render(l.Summary()))
	for _, d := range l {
		fmt.Printf("  - %s\n", d)
	}
}
