package cont

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
)

// PanicError is the error reported to the completion callback of a
// computation whose body panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (p *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", p.Value)
}

// ErrorWithStack returns the error message followed by the stack trace of the
// goroutine at the time it panicked.
func (p *PanicError) ErrorWithStack() string {
	return fmt.Sprintf("%s\n\n%s", p.Error(), p.Stack)
}

// Unwrap returns the panic value when it is an error.
func (p *PanicError) Unwrap() error {
	err, _ := p.Value.(error)
	return err
}

// DebugString renders the chain of errors wrapped by p, including the stacks
// of nested panics. Cycles in the chain are only visited once.
func (p *PanicError) DebugString() string {
	var sb strings.Builder
	seen := make(map[error]bool)

	var walk func(error)
	walk = func(e error) {
		if e == nil || seen[e] {
			return
		}
		seen[e] = true

		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		if pe, ok := e.(*PanicError); ok {
			sb.WriteString(pe.ErrorWithStack())
		} else {
			sb.WriteString(e.Error())
		}

		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, ue := range u.Unwrap() {
				walk(ue)
			}
		default:
			walk(errors.Unwrap(e))
		}
	}

	walk(p)
	return sb.String()
}

func newPanicError(v any) error {
	return &PanicError{Value: v, Stack: debug.Stack()}
}
