package store

import "strings"

// IsUniqueViolation reports whether err is a SQLite UNIQUE constraint
// violation. The storage constraint is the authoritative duplicate check, so
// callers classify this error rather than treating it as a hard failure.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
