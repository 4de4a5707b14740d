package sqlite

import (
	"strings"

	"github.com/pulseboard/pulseboard/internal/pagination"
)

// condBuilder accumulates WHERE conditions and their bind arguments.
type condBuilder struct {
	conds []string
	args  []any
}

func (b *condBuilder) add(cond string, args ...any) {
	b.conds = append(b.conds, cond)
	b.args = append(b.args, args...)
}

func (b *condBuilder) clause() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

// searchCondition adds a LIKE filter across the given columns. SQLite LIKE
// is case-insensitive for ASCII, matching the list UI's expectations.
func searchCondition(b *condBuilder, search string, columns ...string) {
	if search == "" || len(columns) == 0 {
		return
	}
	pattern := "%" + strings.ToLower(search) + "%"
	conds := make([]string, len(columns))
	for i, col := range columns {
		conds[i] = col + " LIKE ?"
		b.args = append(b.args, pattern)
	}
	b.conds = append(b.conds, "("+strings.Join(conds, " OR ")+")")
}

// cursorConfig binds a cursor to the columns of one entity table.
type cursorConfig struct {
	Cursor     string
	Direction  pagination.Direction
	SortByText bool
	DateColumn string
	TextColumn string
	IDColumn   string
}

// cursorCondition adds the resume-point comparison for a cursor: rows
// strictly past the cursor's primary sort value, plus rows that tie on the
// primary value and are past the tie-break id. The comparison operator is
// coupled to the sort convention: newest-first for timestamps, so forward
// means strictly-less-than; alphabetical-first for text, so forward means
// strictly-greater-than. Backward flips the operator.
//
// Malformed cursors are policy, not errors: they decode to zero values and
// the condition is skipped entirely, yielding the unfiltered first page.
func cursorCondition(b *condBuilder, cfg cursorConfig) {
	if cfg.Cursor == "" {
		return
	}
	decoded := pagination.Decode(cfg.Cursor)
	if decoded == (pagination.Cursor{}) {
		return
	}

	forward := cfg.Direction != pagination.DirectionBackward

	if !cfg.SortByText {
		value, ok := decoded.Time()
		if !ok {
			return
		}
		op := "<"
		if !forward {
			op = ">"
		}
		b.add(
			"("+cfg.DateColumn+" "+op+" ? OR ("+cfg.DateColumn+" = ? AND "+cfg.IDColumn+" "+op+" ?))",
			value, value, decoded.ID,
		)
		return
	}

	op := ">"
	if !forward {
		op = "<"
	}
	b.add(
		"("+cfg.TextColumn+" "+op+" ? OR ("+cfg.TextColumn+" = ? AND "+cfg.IDColumn+" "+op+" ?))",
		decoded.Primary, decoded.Primary, decoded.ID,
	)
}

// orderClause returns the ORDER BY column list matching cursorCondition's
// comparison convention for the same configuration.
func orderClause(cfg cursorConfig) string {
	if !cfg.SortByText {
		if cfg.Direction == pagination.DirectionBackward {
			return cfg.DateColumn + " ASC, " + cfg.IDColumn + " ASC"
		}
		return cfg.DateColumn + " DESC, " + cfg.IDColumn + " DESC"
	}
	if cfg.Direction == pagination.DirectionBackward {
		return cfg.TextColumn + " DESC, " + cfg.IDColumn + " DESC"
	}
	return cfg.TextColumn + " ASC, " + cfg.IDColumn + " ASC"
}
