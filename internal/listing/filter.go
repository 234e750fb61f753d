// Package listing holds the admin dashboard's view logic over a snapshot of
// applications: search and status filtering, pagination and CSV export. None of
// it touches the store.
package listing

import (
	"strings"

	"github.com/timvest/intake-server-go/internal/model"
)

// StatusAll matches every status.
const StatusAll = "all"

type Query struct {
	Search string
	Status string
}

// Filter keeps applications whose company name, contact person or email
// contains Search (case-insensitive) and whose status equals Status. An empty
// Search or a Status of "" or "all" does not constrain the result. Order is
// preserved.
func Filter(apps []model.Application, q Query) []model.Application {
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]model.Application, 0, len(apps))
	for _, app := range apps {
		if !matchesStatus(app, q.Status) {
			continue
		}
		if needle != "" && !matchesSearch(app, needle) {
			continue
		}
		out = append(out, app)
	}
	return out
}

func matchesStatus(app model.Application, status string) bool {
	if status == "" || status == StatusAll {
		return true
	}
	return string(app.Status) == status
}

func matchesSearch(app model.Application, needle string) bool {
	for _, field := range []string{app.CompanyName, app.ContactPerson, app.Email} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
