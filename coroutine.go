// Package coro implements cooperative coroutines on top of one-shot
// continuations: pull-style generators, asymmetric coroutines exchanging
// values with their caller, and groups of symmetric coroutines transferring
// control to one another.
//
// Each body runs on its own goroutine, but control is handed over explicitly:
// at any time exactly one party of a chain (the driver or one body) is running.
package coro

import (
	"sync/atomic"

	"github.com/stealthrocket/coro/internal/cont"
)

// Status is the state of an asymmetric coroutine.
type Status uint8

const (
	// StatusCreated is the state of a coroutine whose body has not run yet.
	StatusCreated Status = iota
	// StatusResumed is the state of a coroutine whose body is running.
	StatusResumed
	// StatusYielded is the state of a coroutine paused at a yield point.
	StatusYielded
	// StatusDead is the state of a coroutine whose body returned or which was
	// stopped.
	StatusDead
)

func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusResumed:
		return "resumed"
	case StatusYielded:
		return "yielded"
	case StatusDead:
		return "dead"
	default:
		return "unknown"
	}
}

// status values are immutable; transitions swap the pointer held by the
// coroutine. Created and Yielded carry the continuation of the body (in),
// Resumed carries the continuation of the caller (out).
type status[P, R any] struct {
	kind Status
	in   *cont.Continuation[P]
	out  *cont.Continuation[R]
}

// Coroutine is an asymmetric coroutine: the program resumes it with values of
// type P, and it pauses by yielding values of type R back to the caller that
// resumed it.
type Coroutine[P, R any] struct {
	name   string
	status atomic.Pointer[status[P, R]]
}

// Scope is the handle passed to a coroutine body.
type Scope[P, R any] struct{ c *Coroutine[P, R] }

// New creates a coroutine which executes body as entry point. The body does
// not run until the first call to Resume, and receives the value passed to
// that call as argument.
func New[P, R any](body func(*Scope[P, R], P) (R, error), opts ...Option) *Coroutine[P, R] {
	o := resolveOptions(opts...)
	c := &Coroutine[P, R]{name: o.name}
	s := &Scope[P, R]{c: c}

	start := cont.Start(func(p P) (R, error) {
		return body(s, p)
	}, c.complete)

	c.status.Store(&status[P, R]{kind: StatusCreated, in: start})
	return c
}

// Name returns the name given to the coroutine with WithName.
func (c *Coroutine[P, R]) Name() string { return c.name }

// Status returns the current state of the coroutine.
func (c *Coroutine[P, R]) Status() Status { return c.status.Load().kind }

// Active returns true until the body of the coroutine has returned, or the
// coroutine was stopped.
func (c *Coroutine[P, R]) Active() bool { return c.Status() != StatusDead }

// Resume passes v to the coroutine and runs its body until it yields or
// returns, then returns the value that the body yielded or returned.
//
// Only a coroutine which is created or yielded can be resumed, any other state
// fails with ErrProtocolViolation and leaves the coroutine unchanged. When
// multiple goroutines race to resume the same coroutine, exactly one of them
// wins. A failure of the body is returned wrapped in ErrBodyFailure.
func (c *Coroutine[P, R]) Resume(v P) (R, error) {
	return cont.Suspend(func(k *cont.Continuation[R]) error {
		for {
			prev := c.status.Load()
			switch prev.kind {
			case StatusCreated, StatusYielded:
			case StatusResumed:
				return protocolViolation(c.name, "coroutine already resumed")
			default:
				return protocolViolation(c.name, "coroutine is dead")
			}
			if c.status.CompareAndSwap(prev, &status[P, R]{kind: StatusResumed, out: k}) {
				prev.in.Resume(v)
				return nil
			}
		}
	})
}

// Stop releases a coroutine which is not going to be resumed anymore. If the
// body was paused at a yield point, it does not return from it; its deferred
// calls run instead. The coroutine is dead after Stop returns.
//
// Stop has no effect on a dead coroutine, and fails with ErrProtocolViolation
// when the coroutine is running.
func (c *Coroutine[P, R]) Stop() error {
	for {
		prev := c.status.Load()
		switch prev.kind {
		case StatusDead:
			return nil
		case StatusResumed:
			return protocolViolation(c.name, "cannot stop a running coroutine")
		}
		if c.status.CompareAndSwap(prev, &status[P, R]{kind: StatusDead}) {
			prev.in.Stop()
			return nil
		}
	}
}

func (c *Coroutine[P, R]) complete(r R, err error) {
	for {
		prev := c.status.Load()
		switch prev.kind {
		case StatusResumed:
		case StatusDead:
			// stopped
			return
		default:
			panic(protocolViolation(c.name, "coroutine completed while %s", prev.kind))
		}
		if !c.status.CompareAndSwap(prev, &status[P, R]{kind: StatusDead}) {
			continue
		}
		if err != nil {
			prev.out.Fail(bodyFailure(c.name, err))
		} else {
			prev.out.Resume(r)
		}
		return
	}
}

// Yield pauses the body and hands v to the caller of Resume. It returns the
// value passed to the next call to Resume.
//
// Yield panics with ErrProtocolViolation when the coroutine is not running,
// which the caller of Resume observes as a body failure.
func (s *Scope[P, R]) Yield(v R) P {
	c := s.c
	p, err := cont.Suspend(func(k *cont.Continuation[P]) error {
		for {
			prev := c.status.Load()
			if prev.kind != StatusResumed {
				return protocolViolation(c.name, "yield while the coroutine is %s", prev.kind)
			}
			if c.status.CompareAndSwap(prev, &status[P, R]{kind: StatusYielded, in: k}) {
				prev.out.Resume(v)
				return nil
			}
		}
	})
	if err != nil {
		panic(err)
	}
	return p
}

// Coroutine returns the coroutine that the scope belongs to.
func (s *Scope[P, R]) Coroutine() *Coroutine[P, R] { return s.c }
