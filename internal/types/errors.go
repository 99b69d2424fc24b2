// Package types provides type definitions for structured data used throughout the candidate-evaluator system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "fmt"

// ValidationError reports malformed candidate or job input.
// Field is the JSON path of the offending value, e.g. "candidate.experience[1].duration_months".
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}
