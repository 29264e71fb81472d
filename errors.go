package coro

import (
	"errors"
	"fmt"

	"github.com/stealthrocket/coro/internal/cont"
)

var (
	// ErrExhausted is returned by Generator.Next once the generator body has
	// returned.
	ErrExhausted = errors.New("coro: generator exhausted")

	// ErrProtocolViolation indicates that an operation was invoked on a
	// coroutine in a state that does not permit it: resuming a dead or already
	// resumed coroutine, yielding from a coroutine that is not running,
	// registering a second main, or transferring to a peer that cannot run.
	ErrProtocolViolation = errors.New("coro: protocol violation")

	// ErrBodyFailure wraps the error returned by, or the panic raised in, the
	// body of a generator or coroutine. It is delivered to the party waiting
	// on the body.
	ErrBodyFailure = errors.New("coro: body failure")
)

// PanicError is the error wrapped by ErrBodyFailure when a body panics. It
// carries the panic value and the stack of the goroutine that panicked.
type PanicError = cont.PanicError

func protocolViolation(name string, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if name != "" {
		msg = name + ": " + msg
	}
	return fmt.Errorf("%w: %s", ErrProtocolViolation, msg)
}

func bodyFailure(name string, err error) error {
	if err == nil || errors.Is(err, ErrBodyFailure) {
		return err
	}
	if name != "" {
		return fmt.Errorf("%w: %s: %w", ErrBodyFailure, name, err)
	}
	return fmt.Errorf("%w: %w", ErrBodyFailure, err)
}
