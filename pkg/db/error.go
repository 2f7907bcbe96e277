package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	// PostgreSQL (error code 23505)
	if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
		return true
	}

	// MySQL (error code 1062)
	if strings.Contains(err.Error(), "Error 1062") {
		return true
	}

	// SQLite (error code 2067)
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return true
	}

	return false
}

// IsLockErr reports whether the error looks like row-lock contention so
// callers can surface a retryable conflict instead of a 500.
func IsLockErr(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()

	// PostgreSQL (55P03 lock_not_available, 40P01 deadlock_detected)
	if strings.Contains(msg, "could not obtain lock") || strings.Contains(msg, "deadlock detected") {
		return true
	}

	// MySQL (1205 lock wait timeout, 1213 deadlock)
	if strings.Contains(msg, "Lock wait timeout exceeded") || strings.Contains(msg, "Deadlock found") {
		return true
	}

	// SQLite (SQLITE_BUSY / SQLITE_LOCKED)
	if strings.Contains(msg, "database is locked") || strings.Contains(msg, "database table is locked") {
		return true
	}

	return false
}
