package repositories

import (
	"errors"
	"fmt"

	"pasar/internal/errs"

	"gorm.io/gorm"
)

// lookupError translates a failed single-record lookup.
func lookupError(err error, resource string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NotFound(resource, id)
	}
	return fmt.Errorf("failed to get %s %v: %w", resource, id, err)
}

// createError translates a failed insert; unique violations become conflicts.
func createError(err error, resource string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.Conflict("%s already exists", resource)
	}
	return fmt.Errorf("failed to create %s: %w", resource, err)
}
