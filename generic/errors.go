/*
errors.go - Centralized error types for the shared engine helpers

PURPOSE:
  All error types in one place for consistency and discoverability.
  Domain packages (contracts, tasks, factory) return or wrap these.

ERROR CATEGORIES:
  1. InvalidInput   - A required date/number is missing or not usable.
                      Returned synchronously, never recovered locally.
  2. MalformedRange - End before start. NOT returned by the engines: it is
                      encoded in their results (counts clamped to zero).
  3. MissingRange   - No end (or no bounds). NOT an error for the engines:
                      a first-class "no range" result.

  The last two exist as sentinels so the boundary layer (api) can report
  the encoded conditions uniformly with errors.Is.

USAGE:
  progress, err := contracts.Classify(rec, today)
  if errors.Is(err, generic.ErrInvalidInput) {
      // 400 for this row
  }
  if progress.Malformed {
      report(generic.ErrMalformedRange)
  }
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is returned when a date or number argument is missing
	// where one was required, or cannot be interpreted.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedRange describes a range whose end is before its start.
	ErrMalformedRange = errors.New("malformed range: end before start")

	// ErrMissingRange describes a record without an end (or without any bounds).
	ErrMissingRange = errors.New("missing range")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidInputError names the offending field.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

// RangeError reports a degraded range for a specific record.
type RangeError struct {
	RecordID string
	Range    Range
	Err      error // ErrMalformedRange or ErrMissingRange
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("record %s: %v %s", e.RecordID, e.Err, e.Range)
}

func (e *RangeError) Unwrap() error {
	return e.Err
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsDegraded returns true for conditions that still yield a usable result.
func IsDegraded(err error) bool {
	return errors.Is(err, ErrMalformedRange) ||
		errors.Is(err, ErrMissingRange)
}
