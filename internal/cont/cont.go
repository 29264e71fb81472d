// Package cont implements one-shot continuations on top of goroutines.
//
// A continuation is a parked goroutine waiting for a value. Resuming it hands
// the value over and never blocks the resumer; the resumer is expected to park
// itself right after (usually by calling Suspend), so that within a chain of
// continuations exactly one goroutine is running at any time.
package cont

import (
	"errors"
	"runtime"
	"sync/atomic"
)

// ErrResumed is the value that a second resume of the same continuation panics
// with.
var ErrResumed = errors.New("continuation already resumed")

// ErrExited is passed to the completion callback of a computation whose
// goroutine exited without returning, which happens when its continuation is
// stopped or when the body calls runtime.Goexit.
var ErrExited = errors.New("computation exited without returning")

type signal[T any] struct {
	value T
	err   error
	stop  bool
}

// Continuation is a suspended execution point that can be resumed at most once.
type Continuation[T any] struct {
	ch   chan signal[T]
	used atomic.Bool
}

func newContinuation[T any]() *Continuation[T] {
	return &Continuation[T]{ch: make(chan signal[T], 1)}
}

// Resume resumes the continuation with v.
func (k *Continuation[T]) Resume(v T) { k.send(signal[T]{value: v}) }

// Fail resumes the continuation with an error; the parked party observes err
// as the second return value of Suspend.
func (k *Continuation[T]) Fail(err error) { k.send(signal[T]{err: err}) }

// Stop resumes the continuation with an unwind request. The parked goroutine
// does not return from Suspend; instead it calls runtime.Goexit, running the
// deferred calls of its stack.
func (k *Continuation[T]) Stop() { k.send(signal[T]{stop: true}) }

// Resumed reports whether the continuation has already been consumed.
func (k *Continuation[T]) Resumed() bool { return k.used.Load() }

func (k *Continuation[T]) send(s signal[T]) {
	if !k.used.CompareAndSwap(false, true) {
		panic(ErrResumed)
	}
	k.ch <- s
}

func (k *Continuation[T]) wait() signal[T] { return <-k.ch }

// Suspend captures the continuation of the calling goroutine, passes it to
// block, then parks until it is resumed.
//
// When block returns an error the goroutine does not park and the error is
// returned as is. block is the only place where the continuation should be
// published, since another goroutine may resume it as soon as it is visible.
func Suspend[T any](block func(*Continuation[T]) error) (T, error) {
	k := newContinuation[T]()
	if err := block(k); err != nil {
		var zero T
		return zero, err
	}
	s := k.wait()
	if s.stop {
		runtime.Goexit()
	}
	return s.value, s.err
}

// Start creates a suspended computation. No code of body runs until the
// returned continuation is resumed; the value it is resumed with becomes the
// argument of body.
//
// onComplete is called exactly once, on the goroutine of the computation, with
// the results of body. A panic in body is recovered and reported as a
// *PanicError, and a goroutine exit is reported as ErrExited. If the start
// continuation is stopped, neither body nor onComplete are called.
func Start[T, R any](body func(T) (R, error), onComplete func(R, error)) *Continuation[T] {
	k := newContinuation[T]()

	go func() {
		s := k.wait()
		if s.stop {
			return
		}

		var (
			res      R
			err      error
			returned bool
		)
		defer func() {
			if returned {
				return
			}
			if p := recover(); p != nil {
				err = newPanicError(p)
			} else {
				err = ErrExited
			}
			onComplete(res, err)
		}()

		if s.err != nil {
			err = s.err
		} else {
			res, err = body(s.value)
		}
		returned = true
		onComplete(res, err)
	}()

	return k
}
