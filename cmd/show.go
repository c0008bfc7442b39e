package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/jtrack/internal/model"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one application in full",
	Long:  "Show one application. The id may be shortened to any unique prefix.",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	st := openStores()
	defer st.Close()

	app, err := findApplication(st.apps.All(), args[0])
	if err != nil {
		return err
	}
	printApplication(cmd.OutOrStdout(), app, st.now())
	return nil
}

// findApplication resolves an exact id or a unique id prefix.
func findApplication(apps []model.Application, id string) (model.Application, error) {
	var matches []model.Application
	for _, a := range apps {
		if a.ID == id {
			return a, nil
		}
		if strings.HasPrefix(a.ID, id) {
			matches = append(matches, a)
		}
	}
	switch len(matches) {
	case 0:
		return model.Application{}, fmt.Errorf("no application with id %q", id)
	case 1:
		return matches[0], nil
	default:
		return model.Application{}, fmt.Errorf("id prefix %q is ambiguous (%d matches)", id, len(matches))
	}
}

func printApplication(w io.Writer, a model.Application, now time.Time) {
	field := func(label, value string) {
		if value != "" {
			fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
		}
	}

	fmt.Fprintf(w, "%s – %s\n", pterm.Bold.Sprint(a.CompanyName), a.Role)
	field("ID", a.ID)
	field("Status", colorStatus(a.Status))
	field("Applied", fmt.Sprintf("%s (%s)", displayDate(a.DateApplied, now.Location()), formatAge(a.DateApplied, now)))
	field("Location", a.Location)
	if a.SalaryRange != nil {
		field("Salary", *a.SalaryRange)
	}
	field("Resume", a.ResumeName)
	if a.ResumeFile != nil {
		// base64 inflates by 4/3.
		size := uint64(len(a.ResumeFile.Data)) * 3 / 4
		field("Attachment", fmt.Sprintf("%s, %s, %s", a.ResumeFile.Name, a.ResumeFile.Type, humanize.Bytes(size)))
	}
	if a.Notes != "" {
		fmt.Fprintln(w, "\nNotes:")
		fmt.Fprintln(w, indent(a.Notes))
	}
	if a.JobDescription != "" {
		fmt.Fprintln(w, "\nJob description:")
		fmt.Fprintln(w, indent(a.JobDescription))
	}
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(strings.TrimRight(s, "\n"), "\n", "\n  ")
}
