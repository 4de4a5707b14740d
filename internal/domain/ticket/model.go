package ticket

import (
	"time"

	"github.com/pulseboard/pulseboard/internal/version"
)

// Status is the ticket workflow state.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusBlocked    Status = "blocked"
	StatusDone       Status = "done"
)

// Statuses lists all valid ticket statuses in declaration order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusBlocked, StatusDone}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusBlocked, StatusDone:
		return true
	}
	return false
}

// Fields are the versioned domain fields of a ticket, in the fixed order
// the diff engine compares them. ProjectID is a set-null reference: hard
// deletion of the project (not exposed here) would null it out.
type Fields struct {
	Slug      string  `json:"slug"`
	Title     string  `json:"title"`
	Summary   *string `json:"summary"`
	Status    Status  `json:"status"`
	ProjectID *int64  `json:"projectId"`
	Assignee  *string `json:"assignee"`
}

// Diffable returns the fields in their fixed comparison order.
func (f Fields) Diffable() []version.Field {
	return []version.Field{
		{Name: "slug", Value: f.Slug},
		{Name: "title", Value: f.Title},
		{Name: "summary", Value: f.Summary},
		{Name: "status", Value: f.Status},
		{Name: "projectId", Value: f.ProjectID},
		{Name: "assignee", Value: f.Assignee},
	}
}

// Ticket is a soft-deletable, versioned entity row.
type Ticket struct {
	ID int64 `json:"id"`
	Fields
	DeletedAt *time.Time `json:"deletedAt"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Version is one history snapshot of a ticket's pre-mutation state.
type Version struct {
	ID            int64     `json:"id"`
	EntityID      int64     `json:"entityId"`
	VersionNumber int64     `json:"versionNumber"`
	ChangedAt     time.Time `json:"changedAt"`
	Fields
	CreatedAt time.Time `json:"createdAt"`
}
