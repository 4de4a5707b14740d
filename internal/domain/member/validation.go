package member

import (
	"strings"

	"github.com/pulseboard/pulseboard/internal/forms"
)

// Input carries raw form values for creating or updating a member.
type Input struct {
	Slug   string
	Name   string
	Email  string
	Status string
	Bio    string
	Role   string
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
	if len(strings.TrimSpace(in.Name)) < 3 {
		errs.Set("name", "name must be at least 3 characters")
	}
	if !forms.ValidEmail(strings.TrimSpace(in.Email)) {
		errs.Set("email", "enter a valid email address")
	}
	if !Status(in.Status).Valid() {
		errs.Set("status", "invalid status")
	}
	if len(strings.TrimSpace(in.Role)) < 2 {
		errs.Set("role", "role must be at least 2 characters")
	}
	return errs
}

// fields converts validated input into typed domain fields.
func (in Input) fields() Fields {
	return Fields{
		Slug:   strings.TrimSpace(in.Slug),
		Name:   strings.TrimSpace(in.Name),
		Email:  strings.TrimSpace(in.Email),
		Status: Status(in.Status),
		Bio:    optional(in.Bio),
		Role:   optional(in.Role),
	}
}

func optional(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
