package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/jtrack/internal/filter"
	"github.com/Tiliavir/jtrack/internal/model"
)

var (
	exportFormat string
	exportStatus string
	exportSearch string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export applications and notes to stdout",
	Long: `Export applications to stdout. The json format is a localStorage-style
dump that "jtrack import" and the browser tracker both read; json and yaml
include date notes.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, yaml, md")
	exportCmd.Flags().StringVar(&exportStatus, "status", model.StatusAll, "Only export applications with this status")
	exportCmd.Flags().StringVarP(&exportSearch, "search", "s", "", "Only export applications matching company or role")
}

// exportDump mirrors the browser's storage keys.
type exportDump struct {
	Applications []model.Application `json:"jobtracker_applications" yaml:"applications"`
	DateNotes    []model.DateNote    `json:"jobtracker_date_notes" yaml:"date_notes"`
}

func runExport(cmd *cobra.Command, args []string) error {
	status := model.StatusAll
	if exportStatus != "" && !strings.EqualFold(exportStatus, model.StatusAll) {
		s, err := model.ParseStatus(exportStatus)
		if err != nil {
			return err
		}
		status = string(s)
	}

	st := openStores()
	defer st.Close()

	apps := filter.Applications(st.apps.All(), exportSearch, status)
	dump := exportDump{Applications: apps, DateNotes: st.notes.All()}
	w := cmd.OutOrStdout()

	switch exportFormat {
	case "json":
		data, err := json.MarshalIndent(dump, "", "  ")
		if err != nil {
			return fmt.Errorf("error encoding JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(dump); err != nil {
			return fmt.Errorf("error encoding YAML: %w", err)
		}
		return enc.Close()
	case "md":
		return printMarkdown(w, apps)
	case "csv":
		return printCSV(w, apps)
	default:
		return fmt.Errorf("unknown format %q (want csv, json, yaml or md)", exportFormat)
	}
}

func printCSV(w io.Writer, apps []model.Application) error {
	if _, err := fmt.Fprintln(w, "id,date_applied,company,role,location,status,resume,salary_range,notes"); err != nil {
		return err
	}
	for _, a := range apps {
		salary := ""
		if a.SalaryRange != nil {
			salary = *a.SalaryRange
		}
		fields := []string{a.ID, a.DateApplied, a.CompanyName, a.Role, a.Location, string(a.Status), a.ResumeName, salary, a.Notes}
		for i, f := range fields {
			fields[i] = csvEscape(f)
		}
		if _, err := fmt.Fprintln(w, strings.Join(fields, ",")); err != nil {
			return err
		}
	}
	return nil
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func printMarkdown(w io.Writer, apps []model.Application) error {
	var b strings.Builder
	b.WriteString("| Date | Company | Role | Location | Status |\n")
	b.WriteString("|------|---------|------|----------|--------|\n")
	for _, a := range apps {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			mdEscape(a.DateApplied), mdEscape(a.CompanyName), mdEscape(a.Role), mdEscape(a.Location), a.Status)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// mdEscape keeps a value inside its table cell.
func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
