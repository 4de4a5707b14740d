package sqlite

import "strings"

func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// uniqueViolationOn reports whether err is a unique violation involving
// the given column reference, e.g. "projects.slug".
func uniqueViolationOn(err error, column string) bool {
	return isUniqueViolation(err) && strings.Contains(err.Error(), column)
}
