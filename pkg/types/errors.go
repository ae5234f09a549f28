package types

import (
	"errors"
	"fmt"
)

// Domain errors for catalog construction and querying
var (
	// Construction errors, fatal at startup
	ErrSourceNotFound = errors.New("declaration source not found")
	ErrParse          = errors.New("declaration source could not be parsed")

	// Cache errors, recovered by rebuilding
	ErrCacheCorrupt = errors.New("index cache is corrupt")

	// Query time errors
	ErrIndexUninitialized = errors.New("index is not initialized")
	ErrQueryValidation    = errors.New("invalid query")
	ErrBuildInProgress    = errors.New("index build already in progress")

	// Entry validation errors
	ErrEmptyName      = errors.New("name cannot be empty")
	ErrEmptySignature = errors.New("signature cannot be empty")

	// Search result errors
	ErrInvalidRelevanceScore = errors.New("relevance score cannot be negative")
	ErrEmptyContent          = errors.New("content cannot be empty")
)

// QueryValidationError describes a rejected query argument
type QueryValidationError struct {
	Field  string
	Value  interface{}
	Reason string
}

// Error implements the error interface
func (e *QueryValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// Is lets errors.Is match ErrQueryValidation
func (e *QueryValidationError) Is(target error) bool {
	return target == ErrQueryValidation
}

// NewQueryValidationError creates a QueryValidationError
func NewQueryValidationError(field string, value interface{}, reason string) *QueryValidationError {
	return &QueryValidationError{Field: field, Value: value, Reason: reason}
}
