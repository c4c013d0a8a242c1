package appwindow

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyCreated        = errors.New("a management window already exists in this process")
	ErrInstanceUnavailable   = errors.New("could not get instance")
	ErrClassRegistration     = errors.New("could not register class")
	ErrWindowCreation        = errors.New("could not create window")
	ErrShellHookRegistration = errors.New("could not register shell hook window")
	ErrEventHook             = errors.New("could not install cloak event hook")
	ErrMessageQueue          = errors.New("message queue failure")
)

// ConstructionError reports the step at which Create gave up. Kind is one of
// the sentinel errors above and Err the underlying OS error, if any.
type ConstructionError struct {
	Step string
	Kind error
	Err  error
}

func (e *ConstructionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Step, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Step, e.Kind, e.Err)
}

func (e *ConstructionError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
