package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/jtrack/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show application statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	st := openStores()
	defer st.Close()

	printSummary(cmd.OutOrStdout(), stats.Summarize(st.apps.All(), st.now()))
	return nil
}

func printSummary(w io.Writer, s stats.Summary) {
	c := s.Stats
	fmt.Fprintf(w, "Total applications: %d (%d this week)\n", c.Total, s.ThisWeek)
	fmt.Fprintf(w, "  Applied:            %d\n", c.Applied)
	fmt.Fprintf(w, "  Pending interview:  %d\n", c.Pending)
	fmt.Fprintf(w, "  Interviewing:       %d\n", c.Interviews)
	fmt.Fprintf(w, "  Offers:             %d\n", c.Offers)
	fmt.Fprintf(w, "  Rejected:           %d\n", c.Rejected)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Interview progress  %s %d%%\n", progressBar(s.Progress, 20), s.Progress)
	fmt.Fprintf(w, "Response rate       %d%%\n", s.Rates.Response)
	fmt.Fprintf(w, "Interview rate      %d%%\n", s.Rates.Interview)
	fmt.Fprintf(w, "Offer rate          %d%%\n", s.Rates.Offer)
	if len(s.Resumes) > 0 {
		fmt.Fprintf(w, "Resumes             %s\n", strings.Join(s.Resumes, ", "))
	}
}

// progressBar draws pct (0-100) as a fixed-width bar.
func progressBar(pct, width int) string {
	filled := pct * width / 100
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return pterm.Green(strings.Repeat("█", filled)) + pterm.Gray(strings.Repeat("░", width-filled))
}
