package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrCodeConflict       = errors.New("invitation code already taken")
	ErrAdminExists        = errors.New("admin already exists")
	ErrBackendUnavailable = errors.New("storage backend unavailable")
)

// wrap maps gorm's not-found to ErrNotFound and every other failure to
// ErrBackendUnavailable, keeping the driver error in the chain.
func wrap(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, ErrCodeConflict) || errors.Is(err, ErrAdminExists) || errors.Is(err, ErrBackendUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
}
