package project

import (
	"time"

	"github.com/pulseboard/pulseboard/internal/version"
)

// Status is the project lifecycle state.
type Status string

const (
	StatusPlanned  Status = "planned"
	StatusActive   Status = "active"
	StatusPaused   Status = "paused"
	StatusComplete Status = "complete"
)

// Statuses lists all valid project statuses in declaration order.
var Statuses = []Status{StatusPlanned, StatusActive, StatusPaused, StatusComplete}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPlanned, StatusActive, StatusPaused, StatusComplete:
		return true
	}
	return false
}

// Fields are the versioned domain fields of a project: the exact set
// snapshotted into history on every mutation and compared by the diff
// engine, in declaration order.
type Fields struct {
	Slug        string  `json:"slug"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      Status  `json:"status"`
	Owner       *string `json:"owner"`
}

// Diffable returns the fields in their fixed comparison order.
func (f Fields) Diffable() []version.Field {
	return []version.Field{
		{Name: "slug", Value: f.Slug},
		{Name: "title", Value: f.Title},
		{Name: "description", Value: f.Description},
		{Name: "status", Value: f.Status},
		{Name: "owner", Value: f.Owner},
	}
}

// Project is a soft-deletable, versioned entity row. A non-nil DeletedAt
// marks the row logically removed; it stays queryable behind the
// show-deleted flag and its slug stays reserved.
type Project struct {
	ID int64 `json:"id"`
	Fields
	DeletedAt *time.Time `json:"deletedAt"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Version is one history snapshot: the project's domain fields exactly as
// they were immediately before the mutation that created the snapshot.
// Version numbers are contiguous per project, starting at 1.
type Version struct {
	ID            int64     `json:"id"`
	EntityID      int64     `json:"entityId"`
	VersionNumber int64     `json:"versionNumber"`
	ChangedAt     time.Time `json:"changedAt"`
	Fields
	CreatedAt time.Time `json:"createdAt"`
}

// Option is the lightweight id/title pair list UIs use for select inputs.
type Option struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}
