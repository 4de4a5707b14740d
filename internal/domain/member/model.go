package member

import (
	"time"

	"github.com/pulseboard/pulseboard/internal/version"
)

// Status is the member lifecycle state.
type Status string

const (
	StatusInvited    Status = "invited"
	StatusActive     Status = "active"
	StatusSabbatical Status = "sabbatical"
	StatusInactive   Status = "inactive"
)

// Statuses lists all valid member statuses in declaration order.
var Statuses = []Status{StatusInvited, StatusActive, StatusSabbatical, StatusInactive}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusInvited, StatusActive, StatusSabbatical, StatusInactive:
		return true
	}
	return false
}

// Fields are the versioned domain fields of a member, in the fixed order
// the diff engine compares them.
type Fields struct {
	Slug   string  `json:"slug"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Status Status  `json:"status"`
	Bio    *string `json:"bio"`
	Role   *string `json:"role"`
}

// Diffable returns the fields in their fixed comparison order.
func (f Fields) Diffable() []version.Field {
	return []version.Field{
		{Name: "slug", Value: f.Slug},
		{Name: "name", Value: f.Name},
		{Name: "email", Value: f.Email},
		{Name: "status", Value: f.Status},
		{Name: "bio", Value: f.Bio},
		{Name: "role", Value: f.Role},
	}
}

// Member is a soft-deletable, versioned entity row. Both slug and email
// are unique among all members, soft-deleted ones included.
type Member struct {
	ID int64 `json:"id"`
	Fields
	DeletedAt *time.Time `json:"deletedAt"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Version is one history snapshot of a member's pre-mutation state.
type Version struct {
	ID            int64     `json:"id"`
	EntityID      int64     `json:"entityId"`
	VersionNumber int64     `json:"versionNumber"`
	ChangedAt     time.Time `json:"changedAt"`
	Fields
	CreatedAt time.Time `json:"createdAt"`
}

// Option is the lightweight id/name pair list UIs use for select inputs.
type Option struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
