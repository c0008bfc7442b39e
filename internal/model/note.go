package model

// DateNote is a free-text annotation attached to one calendar date.
// Applications holds the ids of the applications dated on that day at the
// time the note was saved; it is not kept in sync afterwards.
type DateNote struct {
	Date         string   `json:"date" yaml:"date"`
	Note         string   `json:"note" yaml:"note"`
	Applications []string `json:"applications" yaml:"applications"`
}

// DashboardStats holds per-status counts. Ghosted applications only count
// towards Total.
type DashboardStats struct {
	Total      int `json:"total"`
	Applied    int `json:"applied"`
	Pending    int `json:"pending"`
	Interviews int `json:"interviews"`
	Offers     int `json:"offers"`
	Rejected   int `json:"rejected"`
}
