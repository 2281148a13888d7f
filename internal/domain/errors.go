package domain

import "fmt"

// ConfigNotFoundError is returned when the slab document cannot be read.
type ConfigNotFoundError struct {
	Path string
	Err  error
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("slab configuration not found at %s: %v", e.Path, e.Err)
}

func (e *ConfigNotFoundError) Unwrap() error { return e.Err }

// ConfigMalformedError is returned when the slab document parses but is structurally invalid.
type ConfigMalformedError struct {
	Year   string
	Reason string
	Err    error
}

func (e *ConfigMalformedError) Error() string {
	if e.Year == "" {
		return fmt.Sprintf("malformed slab configuration: %s", e.Reason)
	}
	return fmt.Sprintf("malformed slab configuration for %s: %s", e.Year, e.Reason)
}

func (e *ConfigMalformedError) Unwrap() error { return e.Err }

// InvalidProfileError reports a taxpayer profile field that failed validation.
type InvalidProfileError struct {
	Field  string
	Reason string
}

func (e *InvalidProfileError) Error() string {
	return fmt.Sprintf("invalid profile: %s %s", e.Field, e.Reason)
}
