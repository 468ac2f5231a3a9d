// Package scoring adapts the external scoring oracle: prompt assembly,
// bounded retry, response validation, and the score aggregation policy.
package scoring

import "fmt"

// OracleUnavailableError means the scoring oracle could not be reached or
// timed out after the bounded retry budget. Transient; the caller may retry.
type OracleUnavailableError struct {
	Attempts int
	Cause    error
}

func (e *OracleUnavailableError) Error() string {
	return fmt.Sprintf("scoring oracle unavailable after %d attempts: %v", e.Attempts, e.Cause)
}

func (e *OracleUnavailableError) Unwrap() error {
	return e.Cause
}

// ResponseInvalidError means the oracle returned a response that violates
// its contract (non-JSON or missing required fields). Not retried: replaying
// an unparseable-response bug rarely helps.
type ResponseInvalidError struct {
	Message string
	Content string // offending response body, for diagnostics
	Cause   error
}

func (e *ResponseInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid oracle response: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid oracle response: %s", e.Message)
}

func (e *ResponseInvalidError) Unwrap() error {
	return e.Cause
}
