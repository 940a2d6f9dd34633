package strategy

import "fmt"

// LoadError reports that the registrations of an email could not be fetched.
type LoadError struct {
	Email string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load registrations for %s: %v", e.Email, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// MutationError reports a failed status-changing backend call.
type MutationError struct {
	Op   Op
	Kind Kind
	Err  error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *MutationError) Unwrap() error {
	return e.Err
}
