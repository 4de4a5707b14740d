// Package version holds the entity-agnostic pieces of the versioning
// subsystem: the field descriptor used to declare an entity's diffable
// fields in a fixed order, and the comparison that turns two snapshots
// into a field-by-field diff.
package version

import (
	"bytes"
	"encoding/json"
)

// Field is one named domain-field value extracted from a snapshot. Each
// entity type declares its diffable fields as an ordered []Field so the
// field list stays type-checked at the call site.
type Field struct {
	Name  string
	Value any
}

// Change records one field whose value differs between two snapshots.
type Change struct {
	Field    string `json:"field"`
	OldValue any    `json:"oldValue"`
	NewValue any    `json:"newValue"`
}

// Diff is the result of comparing two snapshots of the same entity.
type Diff struct {
	Changes     []Change `json:"changes"`
	FromVersion int64    `json:"fromVersion"`
	ToVersion   int64    `json:"toVersion"`
}

// Compare walks two equal-length field lists in declared order and emits
// one Change per differing field. Values are compared structurally via
// canonical JSON serialization, not by reference; values that serialize
// identically produce no entry. Values that fail to serialize are treated
// as differing.
func Compare(oldFields, newFields []Field) []Change {
	changes := []Change{}
	for i, oldField := range oldFields {
		if i >= len(newFields) {
			break
		}
		newField := newFields[i]
		if equalJSON(oldField.Value, newField.Value) {
			continue
		}
		changes = append(changes, Change{
			Field:    oldField.Name,
			OldValue: oldField.Value,
			NewValue: newField.Value,
		})
	}
	return changes
}

func equalJSON(a, b any) bool {
	aJSON, errA := json.Marshal(a)
	bJSON, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(aJSON, bJSON)
}
