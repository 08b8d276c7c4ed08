package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuery signals a search query that failed validation.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrRateLimited signals that no warehouse slot became free before the request gave up.
	ErrRateLimited = errors.New("rate limited")
	// ErrWarehouseUnavailable signals a connectivity, authentication or SQL failure at the warehouse.
	ErrWarehouseUnavailable = errors.New("warehouse unavailable")
	// ErrMalformedResult signals a result set that lacks the columns a movie needs.
	ErrMalformedResult = errors.New("malformed result")
)

// MissingColumnError wraps ErrMalformedResult with the name of the absent column.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: missing column %q", ErrMalformedResult.Error(), e.Column)
}

func (e *MissingColumnError) Unwrap() error { return ErrMalformedResult }

// NewMissingColumn creates a malformed result error for column.
func NewMissingColumn(column string) error {
	return &MissingColumnError{Column: column}
}
