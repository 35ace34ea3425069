package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	pkgerrors "github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/errors"
)

// IsUniqueViolation reports whether the provided error references a unique
// constraint violation from Postgres or SQLite. When constraintName is provided,
// the helper looks for the constraint (or column) text in the error message.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	if code, ok := pkgerrors.ConstraintCode(err); ok && code == pkgerrors.CodeConflict && constraintName == "" {
		return true
	}
	msg := err.Error()
	if !strings.Contains(msg, "duplicate key value") && !strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return true
}

// IsNotFound reports whether err is gorm's record-not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
