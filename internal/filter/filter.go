package filter

import (
	"strings"

	"github.com/Tiliavir/jtrack/internal/model"
)

// Applications returns the applications whose status equals statusFilter
// (only model.StatusAll matches any) and whose company name or role contains
// searchTerm, ignoring case. Input order is preserved.
func Applications(apps []model.Application, searchTerm, statusFilter string) []model.Application {
	term := strings.ToLower(searchTerm)
	out := make([]model.Application, 0, len(apps))
	for _, a := range apps {
		if statusFilter != model.StatusAll && string(a.Status) != statusFilter {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(a.CompanyName), term) &&
			!strings.Contains(strings.ToLower(a.Role), term) {
			continue
		}
		out = append(out, a)
	}
	return out
}
