package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/jtrack/internal/importer"
)

var (
	importDryRun         bool
	importNormalizeDates bool
)

var importCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Import applications and notes exported from the browser tracker",
	Long: `Import a JSON file holding either an array of applications or an object
with "jobtracker_applications" and "jobtracker_date_notes" (a localStorage dump).
Applications whose id already exists are skipped; notes are matched by date.
Use "-" to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Print planned operations without writing")
	importCmd.Flags().BoolVar(&importNormalizeDates, "normalize-dates", true, "Rewrite dates like \"Jan 5, 2026\" as YYYY-MM-DD")
}

func runImport(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("reading import file: %w", err)
	}

	payload, err := importer.Decode(data)
	if err != nil {
		return err
	}

	st := openStores()
	defer st.Close()

	w := cmd.OutOrStdout()
	dryTag := ""
	if importDryRun {
		dryTag = " [dry-run]"
	}
	fmt.Fprintf(w, "Importing %d application(s) and %d note(s)%s...\n\n",
		len(payload.Applications), len(payload.Notes), dryTag)

	result, err := importer.Run(st.apps, st.notes, payload, importer.Options{
		DryRun:         importDryRun,
		NormalizeDates: importNormalizeDates,
		Loc:            st.loc,
		Out:            w,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Done: %d imported, %d updated, %d skipped, %d errors\n",
		result.Imported, result.Updated, result.Skipped, result.Errors)
	if result.Errors > 0 {
		return fmt.Errorf("%d record(s) could not be imported", result.Errors)
	}
	return nil
}
