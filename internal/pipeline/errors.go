package pipeline

import (
	"errors"
	"fmt"

	"communitypulse/pkg/contracts/domain"
)

// ErrorType classifies pipeline errors.
type ErrorType string

const (
	// ErrorTypeSchema marks a fatal input problem: a required column is
	// absent, so no step can proceed meaningfully.
	ErrorTypeSchema ErrorType = "schema"

	// ErrorTypeUnknownStep marks a caller configuration error: a requested
	// step identifier is not in the registry.
	ErrorTypeUnknownStep ErrorType = "unknown_step"

	// ErrorTypeExecution marks a step failure during a run.
	ErrorTypeExecution ErrorType = "execution"

	// ErrorTypeCancellation marks a run aborted through its context.
	ErrorTypeCancellation ErrorType = "cancellation"
)

// PipelineError is the error surfaced to callers for any failed run. The
// presentation layer is responsible for display; the message always names
// the offending step or column.
type PipelineError struct {
	Type    ErrorType `json:"type"`
	Step    string    `json:"step,omitempty"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	if e == nil {
		return "unknown pipeline error"
	}
	if e.Step != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Type, e.Step, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *PipelineError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewSchemaError reports a required column missing from the input table.
func NewSchemaError(step string, column domain.Column) *PipelineError {
	return &PipelineError{
		Type:    ErrorTypeSchema,
		Step:    step,
		Message: fmt.Sprintf("required column %q absent from input table", column),
	}
}

// NewUnknownStepError reports a step identifier outside the fixed vocabulary.
func NewUnknownStepError(id string) *PipelineError {
	return &PipelineError{
		Type:    ErrorTypeUnknownStep,
		Message: fmt.Sprintf("unrecognized step name %q", id),
	}
}

// NewExecutionError wraps a failure inside a step.
func NewExecutionError(step string, cause error) *PipelineError {
	return &PipelineError{
		Type:    ErrorTypeExecution,
		Step:    step,
		Message: "step execution failed",
		Cause:   cause,
	}
}

// NewCancellationError reports a run aborted via context.
func NewCancellationError(step string, cause error) *PipelineError {
	return &PipelineError{
		Type:    ErrorTypeCancellation,
		Step:    step,
		Message: "run was cancelled",
		Cause:   cause,
	}
}

// GetErrorType returns the classification of an error, defaulting to
// execution for foreign errors.
func GetErrorType(err error) ErrorType {
	if err == nil {
		return ""
	}
	var pErr *PipelineError
	if errors.As(err, &pErr) {
		return pErr.Type
	}
	return ErrorTypeExecution
}
