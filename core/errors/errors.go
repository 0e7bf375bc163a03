// Package errors provides standardized error types and helpers for the
// annotei codebase.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
	// ErrConversion indicates a markup conversion failure
	ErrConversion = errors.New("conversion failed")
)

// LookupError reports a selection path that resolved to no node in the
// facsimile. It is recoverable: the annotation is skipped and the export
// continues.
type LookupError struct {
	Path         string // translated xpath that found nothing
	AnnotationID string // annotation being placed
	Err          error  // underlying error, if any
}

func (e *LookupError) Error() string {
	if e.AnnotationID != "" {
		return fmt.Sprintf("no node matches %q for annotation %s", e.Path, e.AnnotationID)
	}
	return fmt.Sprintf("no node matches %q", e.Path)
}

func (e *LookupError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNotFound
}

// ConversionError reports that the markup conversion collaborator failed
// for one annotation's commentary. The surrounding export loop treats it
// like a lookup failure: skip and continue.
type ConversionError struct {
	AnnotationID string
	Err          error
}

func (e *ConversionError) Error() string {
	if e.AnnotationID != "" {
		return fmt.Sprintf("converting commentary for annotation %s: %v", e.AnnotationID, e.Err)
	}
	return fmt.Sprintf("converting commentary: %v", e.Err)
}

func (e *ConversionError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrConversion
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string // field name that failed validation
	Message string // human-readable error message
	Err     error  // underlying error, if any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// Helper functions for creating common errors

// NewLookup creates a LookupError
func NewLookup(path, annotationID string) *LookupError {
	return &LookupError{
		Path:         path,
		AnnotationID: annotationID,
	}
}

// NewConversion creates a ConversionError
func NewConversion(annotationID string, err error) *ConversionError {
	return &ConversionError{
		AnnotationID: annotationID,
		Err:          err,
	}
}

// NewValidation creates a ValidationError
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
