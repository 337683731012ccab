package agent

import "fmt"

// UnknownOperationError reports a tool name that maps to no known operation.
// It is recovered at the interpretation boundary and surfaced as text.
type UnknownOperationError struct {
	Name string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("unknown operation %q", e.Name)
}

// ParamValidationError reports a tool call missing a required parameter.
type ParamValidationError struct {
	Operation string
	Param     string
}

func (e *ParamValidationError) Error() string {
	return fmt.Sprintf("operation %s requires parameter %q", e.Operation, e.Param)
}

// BackendError reports that the model backend was unreachable or returned a
// non-2xx status. Hard failure for the turn; the session continues.
type BackendError struct {
	Status  int
	Message string
	Cause   error
}

func (e *BackendError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("model backend: %s (http %d)", e.Message, e.Status)
	}
	return "model backend: " + e.Message
}

func (e *BackendError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// UnknownStopReasonError aborts a turn when the backend reports a stop
// reason the engine does not recognize.
type UnknownStopReasonError struct {
	Stop string
}

func (e *UnknownStopReasonError) Error() string {
	return fmt.Sprintf("unknown stop reason %q", e.Stop)
}
