package coro

import (
	"iter"

	"github.com/stealthrocket/coro/internal/cont"
)

type generatorKind uint8

const (
	notReady generatorKind = iota
	ready
	done
)

func (k generatorKind) String() string {
	switch k {
	case notReady:
		return "not ready"
	case ready:
		return "ready"
	default:
		return "done"
	}
}

// generatorState is replaced on every transition, never updated in place.
type generatorState[T any] struct {
	kind  generatorKind
	k     *cont.Continuation[struct{}]
	value T
}

// Generator is a pull-style producer. The body runs only when the program
// asks for the next value, and pauses at each call to Yielder.Yield.
//
// A Generator must be driven from a single goroutine at a time.
type Generator[T any] struct {
	name   string
	state  *generatorState[T]
	driver *cont.Continuation[struct{}]
	err    error
}

// Yielder is the handle passed to a generator body.
type Yielder[T any] struct{ g *Generator[T] }

// NewGenerator creates a generator which executes body to produce values.
// No code of body runs until the first call to HasNext or Next.
func NewGenerator[T any](body func(*Yielder[T]) error, opts ...Option) *Generator[T] {
	o := resolveOptions(opts...)
	g := &Generator[T]{name: o.name}
	y := &Yielder[T]{g: g}

	start := cont.Start(func(struct{}) (struct{}, error) {
		return struct{}{}, body(y)
	}, g.complete)

	g.state = &generatorState[T]{kind: notReady, k: start}
	return g
}

// GeneratorFunc returns a constructor of generators taking a start parameter,
// each call to the constructor creating an independent generator.
func GeneratorFunc[P, T any](body func(*Yielder[T], P) error, opts ...Option) func(P) *Generator[T] {
	return func(p P) *Generator[T] {
		return NewGenerator(func(y *Yielder[T]) error { return body(y, p) }, opts...)
	}
}

// HasNext runs the body until it yields a value or returns, unless a value is
// already pending. It returns false once the body has returned.
func (g *Generator[T]) HasNext() bool {
	g.resume()
	return g.state.kind != done
}

// Next returns the next value produced by the generator.
//
// Once the body has returned, Next returns ErrExhausted, or the error wrapping
// ErrBodyFailure if the body failed.
func (g *Generator[T]) Next() (T, error) {
	if g.state.kind == notReady {
		g.resume()
	}

	switch st := g.state; st.kind {
	case ready:
		g.state = &generatorState[T]{kind: notReady, k: st.k}
		return st.value, nil
	default:
		var zero T
		if g.err != nil {
			return zero, g.err
		}
		return zero, ErrExhausted
	}
}

// Err returns the failure of the generator body, if any.
func (g *Generator[T]) Err() error { return g.err }

// All returns an iterator over the remaining values of the generator. The
// generator is stopped if the loop exits early.
func (g *Generator[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for g.HasNext() {
			v, err := g.Next()
			if err != nil {
				return
			}
			if !yield(v) {
				g.Stop()
				return
			}
		}
	}
}

// Stop releases a generator that is not going to be drained. The body does not
// resume past its current yield point; instead its deferred calls run and its
// goroutine exits. Subsequent calls to HasNext return false.
//
// Stop is idempotent, and has no effect after the body returned.
func (g *Generator[T]) Stop() {
	st := g.state
	if st.kind == done {
		return
	}
	if st.k.Resumed() {
		panic(protocolViolation(g.name, "generator stopped from its own body"))
	}
	g.state = &generatorState[T]{kind: done}
	st.k.Stop()
}

// Yield pauses the body and makes v the next value of the generator. It
// returns when the program asks for the value that follows.
//
// Yield panics with ErrProtocolViolation when the generator is not running,
// for example if the Yielder escaped the body.
func (y *Yielder[T]) Yield(v T) {
	g := y.g
	_, err := cont.Suspend(func(k *cont.Continuation[struct{}]) error {
		if g.state.kind != notReady || g.driver == nil {
			return protocolViolation(g.name, "yield while the generator is %s and not running", g.state.kind)
		}
		g.state = &generatorState[T]{kind: ready, k: k, value: v}
		g.wake()
		return nil
	})
	if err != nil {
		panic(err)
	}
}

func (g *Generator[T]) resume() {
	st := g.state
	if st.kind != notReady {
		return
	}
	if g.driver != nil {
		panic(protocolViolation(g.name, "generator driven from its own body"))
	}
	_, _ = cont.Suspend(func(d *cont.Continuation[struct{}]) error {
		g.driver = d
		st.k.Resume(struct{}{})
		return nil
	})
}

func (g *Generator[T]) wake() {
	d := g.driver
	g.driver = nil
	d.Resume(struct{}{})
}

func (g *Generator[T]) complete(_ struct{}, err error) {
	if g.state.kind == done {
		// stopped
		return
	}
	g.state = &generatorState[T]{kind: done}
	g.err = bodyFailure(g.name, err)
	g.wake()
}
