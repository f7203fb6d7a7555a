// Package oneshot provides the runtime contract between code generated by
// the oneshot compiler and the application that consumes it.
//
// The generator (see compiler/gen) scans immutable state records for fields
// carrying the oneshot marker tag and emits two kinds of operations per
// record: consume operations that reset a single one-shot field back to nil,
// and a dispatcher that fires pending effects and retires them in the
// configured order. Both are expressed against the two primitives defined
// here: Store, the capability to replace the held state record, and
// Scheduler, the keyed effect executor.
//
// Applications hold their state in anything that implements Store. The
// package ships two implementations: StoreFunc for adapting an existing
// state holder, and Var, a minimal concurrency-safe in-memory holder used
// by the examples and in tests.
package oneshot

import "sync"

// Store is the capability generated code uses to reach the mutable state
// holder. Apply replaces the held record with the result of fn applied to
// the current record. Implementations must apply fn atomically with respect
// to concurrent Apply calls.
//
// Every generated consume operation is a full-record replacement through
// Apply, never a partial in-place mutation, so concurrently firing effect
// sequences for different fields cannot race on state.
type Store[S any] interface {
	Apply(fn func(S) S)
}

// StoreFunc adapts a function to a Store. It is the usual bridge to an
// application's own state holder:
//
//	store := oneshot.StoreFunc[SessionState](vm.UpdateState)
type StoreFunc[S any] func(func(S) S)

// Apply calls f(fn).
func (f StoreFunc[S]) Apply(fn func(S) S) { f(fn) }

// Var is an in-memory Store holding a single record.
// It is safe for concurrent use. The zero value holds the zero record.
type Var[S any] struct {
	mu sync.Mutex
	v  S
}

// NewVar returns a Var holding the given initial record.
func NewVar[S any](initial S) *Var[S] {
	return &Var[S]{v: initial}
}

// Apply replaces the held record with fn applied to it.
func (v *Var[S]) Apply(fn func(S) S) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.v = fn(v.v)
}

// Get returns a snapshot of the held record.
func (v *Var[S]) Get() S {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.v
}
