package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an application.
type Status string

const (
	StatusApplied      Status = "Applied"
	StatusPending      Status = "Pending Interview"
	StatusInterviewing Status = "Interviewing"
	StatusOffer        Status = "Offer Received"
	StatusRejected     Status = "Rejected"
	StatusGhosted      Status = "Ghosted"
)

// StatusAll is the filter value that matches every status. It is never a
// valid Application status.
const StatusAll = "All"

// Statuses lists every valid status in display order.
var Statuses = []Status{
	StatusApplied,
	StatusPending,
	StatusInterviewing,
	StatusOffer,
	StatusRejected,
	StatusGhosted,
}

var (
	ErrInvalidStatus = errors.New("invalid status")
	ErrMissingField  = errors.New("missing required field")
)

// Valid reports whether s is one of the fixed status values.
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// ParseStatus maps user input onto a Status, ignoring case and surrounding
// whitespace.
func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	for _, v := range Statuses {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w %q (want one of %s)", ErrInvalidStatus, s, statusList())
}

func statusList() string {
	names := make([]string, len(Statuses))
	for i, v := range Statuses {
		names[i] = string(v)
	}
	return strings.Join(names, ", ")
}

// ResumeFile is a resume embedded in the record as base64 data.
type ResumeFile struct {
	Name string `json:"name" yaml:"name"`
	Data string `json:"data" yaml:"data"`
	Type string `json:"type" yaml:"type"`
}

// Application is a single tracked job application. Field names follow the
// browser storage format so exported data loads unchanged.
type Application struct {
	ID             string      `json:"id" yaml:"id"`
	CompanyName    string      `json:"companyName" yaml:"company_name"`
	Role           string      `json:"role" yaml:"role"`
	Location       string      `json:"location" yaml:"location"`
	DateApplied    string      `json:"dateApplied" yaml:"date_applied"`
	Status         Status      `json:"status" yaml:"status"`
	ResumeName     string      `json:"resumeName" yaml:"resume_name"`
	ResumeFile     *ResumeFile `json:"resumeFile,omitempty" yaml:"resume_file,omitempty"`
	Notes          string      `json:"notes" yaml:"notes"`
	JobDescription string      `json:"jobDescription" yaml:"job_description"`
	SalaryRange    *string     `json:"salaryRange,omitempty" yaml:"salary_range,omitempty"`
}

// DefaultLocation is used when a new application has no location.
const DefaultLocation = "Remote"

// NewApplicationInput carries the fields a user supplies when recording an
// application.
type NewApplicationInput struct {
	CompanyName    string
	Role           string
	Location       string
	DateApplied    time.Time // zero means today
	Status         string
	ResumeName     string
	ResumeFile     *ResumeFile
	Notes          string
	JobDescription string
	SalaryRange    string
}

// NewApplication builds a record with a fresh id. The applied date is stored
// as YYYY-MM-DD.
func NewApplication(in NewApplicationInput, now time.Time) (Application, error) {
	company := strings.TrimSpace(in.CompanyName)
	role := strings.TrimSpace(in.Role)
	if company == "" {
		return Application{}, fmt.Errorf("%w: company name", ErrMissingField)
	}
	if role == "" {
		return Application{}, fmt.Errorf("%w: role", ErrMissingField)
	}

	status := StatusApplied
	if in.Status != "" {
		s, err := ParseStatus(in.Status)
		if err != nil {
			return Application{}, err
		}
		status = s
	}

	location := strings.TrimSpace(in.Location)
	if location == "" {
		location = DefaultLocation
	}

	applied := in.DateApplied
	if applied.IsZero() {
		applied = now
	}

	app := Application{
		ID:             uuid.New().String(),
		CompanyName:    company,
		Role:           role,
		Location:       location,
		DateApplied:    applied.Format("2006-01-02"),
		Status:         status,
		ResumeName:     strings.TrimSpace(in.ResumeName),
		ResumeFile:     in.ResumeFile,
		Notes:          in.Notes,
		JobDescription: in.JobDescription,
	}
	if s := strings.TrimSpace(in.SalaryRange); s != "" {
		app.SalaryRange = &s
	}
	return app, nil
}
