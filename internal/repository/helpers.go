package repository

import "strings"

// isUniqueViolation reports whether err is a Postgres unique_violation.
// The students table has a unique index on usn; the service maps this to the
// already-enrolled conflict.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "23505") ||
		strings.Contains(errMsg, "unique") ||
		strings.Contains(errMsg, "duplicate key")
}
