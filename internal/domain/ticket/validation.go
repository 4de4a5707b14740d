package ticket

import (
	"strconv"
	"strings"

	"github.com/pulseboard/pulseboard/internal/forms"
)

// Input carries raw form values for creating or updating a ticket.
// ProjectID arrives as the raw select value: empty or "null" means no
// project.
type Input struct {
	Slug      string
	Title     string
	Summary   string
	Status    string
	ProjectID string
	Assignee  string
}

// ValidateInput checks raw form values and returns per-field messages for
// everything that fails.
func ValidateInput(in Input) forms.Errors {
	errs := forms.Errors{}
	slug := strings.TrimSpace(in.Slug)
	if len(slug) < 3 {
		errs.Set("slug", "slug must be at least 3 characters")
	} else if !forms.ValidSlug(slug) {
		errs.Set("slug", "use lowercase letters, numbers and dashes")
	}
	if len(strings.TrimSpace(in.Title)) < 3 {
		errs.Set("title", "title must be at least 3 characters")
	}
	if len(strings.TrimSpace(in.Summary)) < 3 {
		errs.Set("summary", "summary must be at least 3 characters")
	}
	if !Status(in.Status).Valid() {
		errs.Set("status", "invalid status")
	}
	if _, ok := parseProjectID(in.ProjectID); !ok {
		errs.Set("projectId", "invalid project")
	}
	return errs
}

// fields converts validated input into typed domain fields.
func (in Input) fields() Fields {
	projectID, _ := parseProjectID(in.ProjectID)
	return Fields{
		Slug:      strings.TrimSpace(in.Slug),
		Title:     strings.TrimSpace(in.Title),
		Summary:   optional(in.Summary),
		Status:    Status(in.Status),
		ProjectID: projectID,
		Assignee:  optional(in.Assignee),
	}
}

func parseProjectID(raw string) (*int64, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" {
		return nil, true
	}
	id, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return nil, false
	}
	return &id, true
}

func optional(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
