package coro

import (
	"errors"
	"sync"
	"sync/atomic"
)

// PeerID identifies a symmetric coroutine within its group.
type PeerID int

// Parameter describes a transfer of control: Value is handed to the peer
// identified by Target.
type Parameter[T any] struct {
	Target PeerID
	Value  T
}

// Group is a set of symmetric coroutines exchanging values of type T. One of
// them is the main coroutine, which drives every transfer between the others.
//
// Peers refer to each other through the group, so a group can hold any graph
// of peers naming each other as transfer targets. A group has at most one main
// coroutine during its whole lifetime.
type Group[T any] struct {
	mutex sync.RWMutex
	peers []*Symmetric[T]
	main  atomic.Pointer[Symmetric[T]]
}

// Symmetric is a coroutine of a group. It never returns control to a caller;
// it transfers control to another peer of its group instead.
type Symmetric[T any] struct {
	id    PeerID
	name  string
	group *Group[T]
	co    *Coroutine[T, Parameter[T]]
}

// SymScope is the handle passed to the body of a symmetric coroutine.
type SymScope[T any] struct {
	self  *Symmetric[T]
	scope *Scope[T, Parameter[T]]
}

// NewGroup creates an empty group.
func NewGroup[T any]() *Group[T] { return new(Group[T]) }

// Create adds a peer to the group. The body does not run until another
// coroutine transfers control to the peer for the first time, and receives the
// transferred value as argument.
//
// The body of a peer must end by transferring to the main coroutine; returning
// from it is a protocol violation reported to the main coroutine.
func (g *Group[T]) Create(body func(*SymScope[T], T) (T, error), opts ...Option) *Symmetric[T] {
	s := g.newSymmetric(body, opts...)
	g.register(s)
	return s
}

// Main creates the main coroutine of the group and runs it, starting with
// initial as argument, until its body returns. The value returned by the body
// is the result of Main.
//
// Main can only be called once per group; subsequent calls fail with
// ErrProtocolViolation.
func (g *Group[T]) Main(body func(*SymScope[T], T) (T, error), initial T, opts ...Option) (T, error) {
	m := g.newSymmetric(body, opts...)
	if !g.main.CompareAndSwap(nil, m) {
		_ = m.co.Stop()
		var zero T
		return zero, protocolViolation(m.name, "group already has a main coroutine")
	}
	g.register(m)

	p, err := m.co.Resume(initial)
	return p.Value, err
}

// Peer returns the peer registered under id, or nil if there is none.
func (g *Group[T]) Peer(id PeerID) *Symmetric[T] {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	if id < 0 || int(id) >= len(g.peers) {
		return nil
	}
	return g.peers[id]
}

// Stop releases the peers of the group that are still suspended. Peers which
// are running are left untouched and reported in the returned error.
func (g *Group[T]) Stop() error {
	g.mutex.RLock()
	peers := append([]*Symmetric[T](nil), g.peers...)
	g.mutex.RUnlock()

	var errs []error
	for _, p := range peers {
		if err := p.co.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (g *Group[T]) newSymmetric(body func(*SymScope[T], T) (T, error), opts ...Option) *Symmetric[T] {
	o := resolveOptions(opts...)
	s := &Symmetric[T]{id: -1, name: o.name, group: g}

	s.co = New(func(scope *Scope[T, Parameter[T]], v T) (Parameter[T], error) {
		r, err := body(&SymScope[T]{self: s, scope: scope}, v)
		if err != nil {
			return Parameter[T]{}, err
		}
		if !s.IsMain() {
			return Parameter[T]{}, protocolViolation(s.name, "peer %d returned instead of transferring to main", s.id)
		}
		return Parameter[T]{Target: s.id, Value: r}, nil
	}, opts...)

	return s
}

func (g *Group[T]) register(s *Symmetric[T]) {
	g.mutex.Lock()
	s.id = PeerID(len(g.peers))
	g.peers = append(g.peers, s)
	g.mutex.Unlock()
}

func (g *Group[T]) owns(s *Symmetric[T]) bool {
	return s != nil && s.group == g && g.Peer(s.id) == s
}

// ID returns the identifier of the peer in its group.
func (s *Symmetric[T]) ID() PeerID { return s.id }

// Name returns the name given to the peer with WithName.
func (s *Symmetric[T]) Name() string { return s.name }

// Status returns the state of the coroutine underlying the peer.
func (s *Symmetric[T]) Status() Status { return s.co.Status() }

// IsMain reports whether s is the main coroutine of its group.
func (s *Symmetric[T]) IsMain() bool { return s.group.main.Load() == s }

// Self returns the peer running the body that the scope was passed to.
func (s *SymScope[T]) Self() *Symmetric[T] { return s.self }

// Main returns the main coroutine of the group, or nil if it was not started.
func (s *SymScope[T]) Main() *Symmetric[T] { return s.self.group.main.Load() }

// Transfer hands control and v to target, and returns the value transferred
// back when control comes back to the caller.
//
// Transferring from the main coroutine to itself returns v immediately. When
// the main coroutine transfers to a peer, it keeps resuming peers in a loop,
// following each transfer they make, until one of them transfers to main; the
// call stack does not grow with the length of the chain. When a peer calls
// Transfer, it suspends and lets the main coroutine resume target.
//
// The target must be a live peer of the same group, and a peer can only
// transfer while the main coroutine is running it; any other case fails with
// ErrProtocolViolation.
func (s *SymScope[T]) Transfer(target *Symmetric[T], v T) (T, error) {
	var zero T
	self := s.self
	g := self.group

	if !g.owns(target) {
		return zero, protocolViolation(self.name, "transfer to a coroutine outside of the group")
	}
	if target.Status() == StatusDead {
		return zero, protocolViolation(self.name, "transfer to dead peer %d", target.id)
	}

	if !self.IsMain() {
		if st := self.Status(); st != StatusResumed {
			return zero, protocolViolation(self.name, "transfer from peer %d which is not running (%s)", self.id, st)
		}
		return s.scope.Yield(Parameter[T]{Target: target.id, Value: v}), nil
	}

	for !target.IsMain() {
		p, err := target.co.Resume(v)
		if err != nil {
			return zero, err
		}
		next := g.Peer(p.Target)
		if next == nil {
			return zero, protocolViolation(target.name, "transfer to unknown peer %d", p.Target)
		}
		target, v = next, p.Value
	}
	return v, nil
}
