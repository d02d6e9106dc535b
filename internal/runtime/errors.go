package runtime

import "fmt"

// RuntimeUnavailableError means the container engine could not be reached
// at all (daemon down, socket missing, call timed out before the engine
// answered). It aborts the invocation: no per-service work is possible
// without an engine.
type RuntimeUnavailableError struct {
	Cause error
}

func (e *RuntimeUnavailableError) Error() string {
	return fmt.Sprintf("container engine unavailable: %v", e.Cause)
}

func (e *RuntimeUnavailableError) Unwrap() error {
	return e.Cause
}

// PrerequisiteError means the invocation cannot proceed at all: a
// required privilege is missing, the deployment was never installed, or
// an expected on-disk structure is absent. It aborts before any
// per-service work is attempted.
type PrerequisiteError struct {
	Reason string
}

func (e *PrerequisiteError) Error() string {
	return fmt.Sprintf("prerequisite not met: %s", e.Reason)
}
