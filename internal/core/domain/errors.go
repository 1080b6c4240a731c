package domain

import "fmt"

// ConfigError reports malformed user input (bad regex, tag expression, size
// or time string). It is raised before any remote call is issued and aborts
// the run with a non-zero exit.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewConfigError builds a ConfigError for the given input field.
func NewConfigError(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// EnrichmentError reports a failed per-record secondary lookup (describe or
// tag fetch). It never aborts a scan; the pipeline either excludes the record
// or yields it with an enrichment-unavailable marker.
type EnrichmentError struct {
	Resource string
	Err      error
}

func (e *EnrichmentError) Error() string {
	return fmt.Sprintf("enrichment failed for %s: %v", e.Resource, e.Err)
}

func (e *EnrichmentError) Unwrap() error { return e.Err }

// RetryError reports a single failed start-execution call. It is folded into
// a failed RetryOutcome and never aborts the remaining retries.
type RetryError struct {
	Execution string
	Err       error
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("retry failed for %s: %v", e.Execution, e.Err)
}

func (e *RetryError) Unwrap() error { return e.Err }
