package signals

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateRegistration is reported when Bind is called for a kind that
	// already has a dispatcher.
	ErrDuplicateRegistration = errors.New("signals: signal already registered")

	// ErrUnregisterableHandler is returned when a handler without identity
	// (nil handler or nil function) is added while validation is enabled.
	ErrUnregisterableHandler = errors.New("signals: handler cannot be unregistered")
)

// HandlerError wraps the error a handler returned during Dispatch.
type HandlerError struct {
	// Signal is the hash of the dispatching signal.
	Signal string

	// Index is the position of the failing handler in registration order.
	Index int

	// Err is the handler's error.
	Err error
}

// Error implements the error interface.
func (e *HandlerError) Error() string {
	return fmt.Sprintf("signals: handler %d of %s failed: %v", e.Index, e.Signal, e.Err)
}

// Unwrap returns the handler's error.
func (e *HandlerError) Unwrap() error {
	return e.Err
}
