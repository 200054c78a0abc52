/*
errors.go - Error taxonomy for the PDP report pipeline

ERROR CATEGORIES:
  1. Validation errors - Value object construction failures. The mapping
     layer skips the offending row and keeps the batch alive.
  2. No-data - The resolved period had zero productivity rows. Not a
     defect; surfaces as an explanatory empty result.
  3. Upstream failures - A source fetch failed outright. Always surfaced,
     never swallowed; the pipeline does not retry.

USAGE:
  Callers branch with errors.Is / errors.As:

    if errors.Is(err, pdp.ErrNoData) { ... render empty response ... }

    var up *pdp.UpstreamError
    if errors.As(err, &up) { ... "failed to process" with up.Source ... }
*/
package pdp

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNoData is returned when the resolved period has no productivity
	// records. An empty month is an answer, not a failure.
	ErrNoData = errors.New("no productivity data for period")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports a value-object construction failure.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NoDataError carries the resolved period so the caller can render a
// human-readable reason.
type NoDataError struct {
	Period Period
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no productivity data found for period %s", e.Period)
}

func (e *NoDataError) Unwrap() error { return ErrNoData }

// UpstreamError wraps a source-fetch failure with the source's name.
type UpstreamError struct {
	Source string // "productivity" or "call-time"
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s source fetch failed: %v", e.Source, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// IsClientError reports whether the error is due to invalid caller input.
func IsClientError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
