package project

import (
	"strings"

	"github.com/pulseboard/pulseboard/internal/forms"
)

// Input carries raw form values for creating or updating a project.
type Input struct {
	Slug        string
	Title       string
	Description string
	Status      string
	Owner       string
}

// ValidateInput checks raw form values and returns per-field messages for
// everything that fails. An empty map means the input is valid.
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
	if !Status(in.Status).Valid() {
		errs.Set("status", "invalid status")
	}
	if len(strings.TrimSpace(in.Owner)) < 3 {
		errs.Set("owner", "owner must be at least 3 characters")
	}
	return errs
}

// fields converts validated input into typed domain fields.
func (in Input) fields() Fields {
	return Fields{
		Slug:        strings.TrimSpace(in.Slug),
		Title:       strings.TrimSpace(in.Title),
		Description: optional(in.Description),
		Status:      Status(in.Status),
		Owner:       optional(in.Owner),
	}
}

func optional(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
