package repository

import "strings"

// isUniqueViolation reports whether err is a unique constraint violation.
// String matching keeps this working across pgx and pgxmock errors.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "23505") ||
		strings.Contains(msg, "unique") ||
		strings.Contains(msg, "duplicate key")
}
