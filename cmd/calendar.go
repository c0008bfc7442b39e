package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/jtrack/internal/calendar"
	"github.com/Tiliavir/jtrack/internal/datecalc"
)

var (
	calendarMonth  string
	calendarSearch string
	calendarOffset int
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show a month of applications and notes",
	Long: `Show a month as a Sunday-first grid. Days with applications show their
count, days with a note are marked with ✎. With --search, only matching
applications and notes are shown and other days of the month are dimmed.`,
	Args: cobra.NoArgs,
	RunE: runCalendar,
}

func init() {
	calendarCmd.Flags().StringVar(&calendarMonth, "month", "", "Month to show (YYYY-MM); defaults to the current month")
	calendarCmd.Flags().IntVar(&calendarOffset, "offset", 0, "Move the shown month by N months (e.g. -1 for the previous month)")
	calendarCmd.Flags().StringVarP(&calendarSearch, "search", "s", "", "Highlight days matching this text")
}

func runCalendar(cmd *cobra.Command, args []string) error {
	st := openStores()
	defer st.Close()

	today := st.now()
	month := datecalc.FirstOfMonth(today.Year(), today.Month(), st.loc)
	if calendarMonth != "" {
		m, err := datecalc.ParseMonth(calendarMonth, st.loc)
		if err != nil {
			return fmt.Errorf("invalid --month value %q: %w", calendarMonth, err)
		}
		month = m
	}
	month = datecalc.AddMonths(month, calendarOffset)

	grid := calendar.BuildMonth(calendar.MonthQuery{
		Year:  month.Year(),
		Month: month.Month(),
		Today: today,
		Query: calendarSearch,
	}, st.apps.All(), st.notes.All())

	return printCalendar(cmd.OutOrStdout(), grid)
}

func printCalendar(w io.Writer, g calendar.Grid) error {
	fmt.Fprintln(w, pterm.Bold.Sprintf("%s %d", g.Month, g.Year))

	rows := [][]string{{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}}
	for _, week := range g.Weeks() {
		row := make([]string, 0, len(week))
		for _, c := range week {
			row = append(row, cellLabel(c, g.Query != ""))
		}
		rows = append(rows, row)
	}
	if err := renderTable(w, rows); err != nil {
		return err
	}

	for _, c := range g.Cells {
		if !c.InMonth || (len(c.Applications) == 0 && c.Note == nil) {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", datecalc.FormatDisplay(c.Date))
		for _, a := range c.Applications {
			fmt.Fprintf(w, "  • %s – %s (%s)\n", a.CompanyName, a.Role, colorStatus(a.Status))
		}
		if c.Note != nil {
			fmt.Fprintf(w, "  ✎ %s\n", strings.ReplaceAll(c.Note.Note, "\n", "\n    "))
		}
	}
	return nil
}

// cellLabel renders one day: the day number, the application count and a
// note marker.
func cellLabel(c calendar.Cell, searching bool) string {
	label := fmt.Sprintf("%2d", c.Date.Day())
	if n := len(c.Applications); n > 0 {
		label += fmt.Sprintf(" •%d", n)
	}
	if c.Note != nil {
		label += " ✎"
	}

	switch {
	case c.IsToday:
		return pterm.Bold.Sprint("[" + label + "]")
	case !c.InMonth, c.Dimmed:
		return pterm.Gray(label)
	case searching && c.Matches:
		return pterm.Green(label)
	default:
		return label
	}
}
