package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/jtrack/internal/calendar"
	"github.com/Tiliavir/jtrack/internal/datecalc"
	"github.com/Tiliavir/jtrack/internal/model"
)

var noteClearYes bool

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage per-day notes",
}

var noteSetCmd = &cobra.Command{
	Use:   "set <date> <text...>",
	Short: "Write the note for a date, replacing any existing one",
	Long: `Write the note for a date (YYYY-MM-DD or "today"). The ids of the
applications dated on that day are recorded with the note.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runNoteSet,
}

var noteShowCmd = &cobra.Command{
	Use:   "show <date>",
	Short: "Show the note for a date",
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteShow,
}

var noteDeleteCmd = &cobra.Command{
	Use:   "delete <date>",
	Short: "Delete the note for a date",
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteDelete,
}

var noteClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every note",
	Args:  cobra.NoArgs,
	RunE:  runNoteClear,
}

func init() {
	noteClearCmd.Flags().BoolVar(&noteClearYes, "yes", false, "Confirm deleting all notes")
	noteCmd.AddCommand(noteSetCmd)
	noteCmd.AddCommand(noteShowCmd)
	noteCmd.AddCommand(noteDeleteCmd)
	noteCmd.AddCommand(noteClearCmd)
}

// parseNoteDate accepts YYYY-MM-DD, any stored date form, or "today".
func parseNoteDate(s string, now time.Time) (time.Time, error) {
	if strings.EqualFold(s, "today") {
		return datecalc.StartOfDay(now), nil
	}
	d, err := datecalc.ParseDate(s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD or \"today\")", s)
	}
	return d, nil
}

func runNoteSet(cmd *cobra.Command, args []string) error {
	st := openStores()
	defer st.Close()

	day, err := parseNoteDate(args[0], st.now())
	if err != nil {
		return err
	}

	ids := []string{}
	for _, a := range calendar.ApplicationsOn(day, st.apps.All(), st.loc) {
		ids = append(ids, a.ID)
	}
	note := model.DateNote{
		Date:         datecalc.FormatISO(day),
		Note:         strings.Join(args[1:], " "),
		Applications: ids,
	}
	if err := st.notes.Save(note); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved note for %s (%d application(s) that day)\n",
		datecalc.FormatDisplay(day), len(ids))
	return nil
}

func runNoteShow(cmd *cobra.Command, args []string) error {
	st := openStores()
	defer st.Close()

	day, err := parseNoteDate(args[0], st.now())
	if err != nil {
		return err
	}
	note, ok := st.notes.GetByDate(datecalc.FormatISO(day))
	if !ok {
		return fmt.Errorf("no note for %s", datecalc.FormatISO(day))
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, datecalc.FormatDisplay(day))
	fmt.Fprintln(w, indent(note.Note))

	// The note keeps the ids it was saved with; show what they still resolve to.
	all := st.apps.All()
	for _, id := range note.Applications {
		if a, err := findApplication(all, id); err == nil {
			fmt.Fprintf(w, "  • %s – %s (%s)\n", a.CompanyName, a.Role, colorStatus(a.Status))
		}
	}
	return nil
}

func runNoteDelete(cmd *cobra.Command, args []string) error {
	st := openStores()
	defer st.Close()

	day, err := parseNoteDate(args[0], st.now())
	if err != nil {
		return err
	}
	existed, err := st.notes.Delete(datecalc.FormatISO(day))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if !existed {
		fmt.Fprintf(cmd.OutOrStdout(), "No note for %s.\n", datecalc.FormatISO(day))
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted note for %s.\n", datecalc.FormatISO(day))
	return nil
}

func runNoteClear(cmd *cobra.Command, args []string) error {
	if !noteClearYes {
		return fmt.Errorf("refusing to delete all notes without --yes")
	}
	st := openStores()
	defer st.Close()

	if err := st.notes.Clear(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "All notes deleted.")
	return nil
}
