// Package validation provides input validation for user-supplied paths
// and documents before the export pipeline touches them.
package validation

import (
	"errors"
	"fmt"
	"strings"
)

// Limits guarding against resource exhaustion from hostile inputs.
const (
	// MaxDocumentSize is the maximum TEI document size accepted (256 MB).
	MaxDocumentSize = 256 << 20
	// MaxPathLength is the maximum allowed path length.
	MaxPathLength = 4096
)

// Common validation errors.
var (
	ErrEmptyPath        = errors.New("path cannot be empty")
	ErrPathTooLong      = errors.New("path too long")
	ErrInvalidCharacter = errors.New("invalid character in path")
	ErrDocumentTooLarge = errors.New("document too large")
)

// ValidatePath performs basic validation on a user-supplied path.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if len(path) > MaxPathLength {
		return ErrPathTooLong
	}
	if strings.ContainsRune(path, '\x00') {
		return fmt.Errorf("%w: null byte", ErrInvalidCharacter)
	}
	return nil
}

// ValidateDocumentSize rejects documents over the processing limit.
func ValidateDocumentSize(n int) error {
	if n > MaxDocumentSize {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrDocumentTooLarge, n, MaxDocumentSize)
	}
	return nil
}
