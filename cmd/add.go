package cmd

import (
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/jtrack/internal/datecalc"
	"github.com/Tiliavir/jtrack/internal/model"
)

var (
	addCompany     string
	addRole        string
	addLocation    string
	addDate        string
	addStatus      string
	addResume      string
	addResumeFile  string
	addNotes       string
	addDescription string
	addSalary      string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new job application",
	Example: `  jtrack add --company Acme --role "Backend Engineer"
  jtrack add --company Globex --role SRE --date 2026-10-01 --status "Pending Interview" --resume-file cv.pdf`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addCompany, "company", "", "Company name (required)")
	addCmd.Flags().StringVar(&addRole, "role", "", "Role applied for (required)")
	addCmd.Flags().StringVar(&addLocation, "location", "", "Job location (default \"Remote\")")
	addCmd.Flags().StringVar(&addDate, "date", "", "Date applied (YYYY-MM-DD); defaults to today")
	addCmd.Flags().StringVar(&addStatus, "status", "", "Initial status (default \"Applied\")")
	addCmd.Flags().StringVar(&addResume, "resume", "", "Name of the resume used")
	addCmd.Flags().StringVar(&addResumeFile, "resume-file", "", "Resume file to embed in the record")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "Free-form notes")
	addCmd.Flags().StringVar(&addDescription, "description", "", "Job description")
	addCmd.Flags().StringVar(&addSalary, "salary", "", "Salary range, e.g. \"$120k-$150k\"")
	_ = addCmd.MarkFlagRequired("company")
	_ = addCmd.MarkFlagRequired("role")
}

func runAdd(cmd *cobra.Command, args []string) error {
	st := openStores()
	defer st.Close()

	in := model.NewApplicationInput{
		CompanyName:    addCompany,
		Role:           addRole,
		Location:       addLocation,
		Status:         addStatus,
		ResumeName:     addResume,
		Notes:          addNotes,
		JobDescription: addDescription,
		SalaryRange:    addSalary,
	}
	if addDate != "" {
		d, err := datecalc.ParseDate(addDate, st.loc)
		if err != nil {
			return fmt.Errorf("invalid --date value %q: %w", addDate, err)
		}
		in.DateApplied = d
	}
	if addResumeFile != "" {
		rf, err := readResumeFile(addResumeFile)
		if err != nil {
			return err
		}
		in.ResumeFile = rf
		if in.ResumeName == "" {
			in.ResumeName = rf.Name
		}
	}

	app, err := model.NewApplication(in, st.now())
	if err != nil {
		return err
	}
	if err := st.apps.Add(app); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added %s at %s (%s) – id %s\n",
		app.Role, app.CompanyName, displayDate(app.DateApplied, st.loc), app.ID)
	return nil
}

// readResumeFile loads a resume and encodes it the way the browser stores
// uploads.
func readResumeFile(path string) (*model.ResumeFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading resume file: %w", err)
	}
	typ := mime.TypeByExtension(filepath.Ext(path))
	if typ == "" {
		typ = "application/octet-stream"
	}
	return &model.ResumeFile{
		Name: filepath.Base(path),
		Data: base64.StdEncoding.EncodeToString(data),
		Type: typ,
	}, nil
}
