package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrDuplicate is returned when an insert or update violates a unique constraint
var ErrDuplicate = errors.New("duplicate record")

// IsDuplicate reports whether err came from a unique constraint violation.
// TranslateError covers postgres and sqlite; the message check catches drivers that are not translated.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint")
}

func offset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}

// first returns (nil, nil) when no row matches
func first[T any](tx *gorm.DB, dest *T) (*T, error) {
	if err := tx.Take(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return dest, nil
}

// ErrNotFound is returned by multi-step writes whose target row disappeared mid-transaction
var ErrNotFound = errors.New("record not found")
