package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/jtrack/internal/filter"
	"github.com/Tiliavir/jtrack/internal/model"
)

var (
	listStatus string
	listSearch string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List job applications",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", model.StatusAll, "Only show applications with this status")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Match company or role (case-insensitive)")
}

func runList(cmd *cobra.Command, args []string) error {
	status := strings.TrimSpace(listStatus)
	if status != "" && !strings.EqualFold(status, model.StatusAll) {
		s, err := model.ParseStatus(status)
		if err != nil {
			return err
		}
		status = string(s)
	} else {
		status = model.StatusAll
	}

	st := openStores()
	defer st.Close()

	apps := filter.Applications(st.apps.All(), listSearch, status)
	return printApplications(cmd.OutOrStdout(), apps, st.now())
}

func printApplications(w io.Writer, apps []model.Application, now time.Time) error {
	if len(apps) == 0 {
		_, err := fmt.Fprintln(w, "No applications found.")
		return err
	}

	rows := [][]string{{"Applied", "Company", "Role", "Location", "Status", "", "ID"}}
	for _, a := range apps {
		rows = append(rows, []string{
			displayDate(a.DateApplied, now.Location()),
			a.CompanyName,
			a.Role,
			a.Location,
			colorStatus(a.Status),
			formatAge(a.DateApplied, now),
			shortID(a.ID),
		})
	}
	if err := renderTable(w, rows); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d application(s)\n", len(apps))
	return err
}

// shortID is enough of a UUID to pass to "jtrack show".
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
