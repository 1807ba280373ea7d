package models

import (
	"errors"
	"fmt"
)

// Custom errors
var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key violation")
	ErrInvalidID    = errors.New("invalid ID format")
	ErrNoCandidates = errors.New("no qualifying candidates")
)

// ValidationError marks a malformed input record. The item is skipped
// and counted; the batch continues.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a validation error for one field
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// DataUnavailableError marks a gap in supporting data (no history, no
// defense rank, no box score). Callers degrade and continue; this error
// never aborts a run.
type DataUnavailableError struct {
	Resource string
	Key      string
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("no %s data for %s", e.Resource, e.Key)
}

// NewDataUnavailableError creates a data gap error
func NewDataUnavailableError(resource, key string) *DataUnavailableError {
	return &DataUnavailableError{Resource: resource, Key: key}
}

// InvariantViolationError marks a broken construction rule, such as two
// legs on the same player. Fatal for the operation that hit it.
type InvariantViolationError struct {
	Message string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation: %s", e.Message)
}

// NewInvariantViolation creates an invariant violation error
func NewInvariantViolation(format string, args ...interface{}) *InvariantViolationError {
	return &InvariantViolationError{Message: fmt.Sprintf(format, args...)}
}

// UpstreamFetchError marks a failed feed call after retries. The whole
// run aborts; stale derived data is worse than absent derived data.
type UpstreamFetchError struct {
	Feed string
	Err  error
}

func (e *UpstreamFetchError) Error() string {
	return fmt.Sprintf("upstream fetch from %s failed: %v", e.Feed, e.Err)
}

func (e *UpstreamFetchError) Unwrap() error {
	return e.Err
}

// NewUpstreamFetchError wraps a feed failure
func NewUpstreamFetchError(feed string, err error) *UpstreamFetchError {
	return &UpstreamFetchError{Feed: feed, Err: err}
}

// IsSkippable reports whether an error should skip the current item
// rather than abort the batch.
func IsSkippable(err error) bool {
	var ve *ValidationError
	var de *DataUnavailableError
	return errors.As(err, &ve) || errors.As(err, &de)
}
