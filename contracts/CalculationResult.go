package contracts

import (
	"errors"
	"strings"
)

type CalculationStatus string

const (
	StatusSuccess CalculationStatus = "success"
	StatusPartial CalculationStatus = "partial"
	StatusFailure CalculationStatus = "failure"
)

// Diagnostic is a non-fatal per-cell evaluation note.
type Diagnostic struct {
	Cell    string `json:"cell"`
	Message string `json:"message"`
}

type CalculationResult struct {
	ExecutionID string            `json:"execution_id"`
	Calculator  string            `json:"calculator"`
	Inputs      map[string]any    `json:"inputs"`
	Outputs     map[string]any    `json:"outputs"`
	Status      CalculationStatus `json:"status"`
	Diagnostics []Diagnostic      `json:"diagnostics,omitempty"`
	FromCache   bool              `json:"from_cache,omitempty"`
}

var UnknownInputError = errors.New("unknown input")

var MissingInputError = errors.New("missing required input")

// InputValidationError reports every contract violation of one call at once,
// not just the first.
type InputValidationError struct {
	Unknown []string
	Missing []string
}

func (e *InputValidationError) Error() string {
	parts := make([]string, 0, 2)
	if len(e.Unknown) > 0 {
		parts = append(parts, UnknownInputError.Error()+": "+strings.Join(e.Unknown, ", "))
	}
	if len(e.Missing) > 0 {
		parts = append(parts, MissingInputError.Error()+": "+strings.Join(e.Missing, ", "))
	}
	return strings.Join(parts, "; ")
}

func (e *InputValidationError) Unwrap() []error {
	wrapped := make([]error, 0, 2)
	if len(e.Unknown) > 0 {
		wrapped = append(wrapped, UnknownInputError)
	}
	if len(e.Missing) > 0 {
		wrapped = append(wrapped, MissingInputError)
	}
	return wrapped
}

var LockTimeoutError = errors.New("timed out waiting for calculation lock")
