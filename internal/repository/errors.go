package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

const mysqlDuplicateEntry = 1062

// IsDuplicateError reports whether err is a unique-constraint violation. The
// storage constraint is the authority for every uniqueness invariant here, so
// callers classify this case as an expected conflict rather than a fault.
func IsDuplicateError(err error) bool {
	if err == nil {
		return false
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return true
	}

	// sqlite (tests) reports no structured code through gorm.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// DuplicateField names the unique column a duplicate error refers to. Both
// mysql and sqlite include the key name in the message. Returns "" when the
// column cannot be determined.
func DuplicateField(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, field := range []string{"password_hash", "username", "user_id", "email", "code"} {
		if strings.Contains(msg, field) {
			return field
		}
	}

	return ""
}
