package oneshot

import (
	"context"
	"reflect"
	"sync"
)

// Scheduler executes keyed one-shot effect sequences. Each named slot
// remembers the key of its last launch: launching the same slot with an
// equal key is a no-op, so a sequence never re-fires for the same value.
// Launching with a different key cancels the previous sequence's context
// (if it is still running) and starts a new one.
//
// Generated dispatchers use one slot per marked field, keyed by the field's
// current value, and release the slot with Forget once they observe the
// field consumed, so the same value posted again later fires again. The
// restart-on-key-change semantics mirror the dispatch contract: a pending
// effect whose value changes before the previous sequence completes is
// cancelled and re-launched with the new value.
type Scheduler struct {
	ctx context.Context
	wg  sync.WaitGroup

	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	key    any
	cancel context.CancelFunc
}

// NewScheduler returns a Scheduler whose sequences derive from ctx.
// Cancelling ctx cancels all running sequences.
func NewScheduler(ctx context.Context) *Scheduler {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Scheduler{
		ctx:   ctx,
		slots: make(map[string]*slot),
	}
}

// Launch schedules fn on the named slot, keyed by key. If the slot's
// current key equals key the call is a no-op. Otherwise any running
// sequence on the slot is cancelled and fn runs in a new goroutine with a
// context derived from the Scheduler's.
//
// Keys are compared with reflect.DeepEqual so uncomparable field values
// (slices, maps) are valid keys.
func (s *Scheduler) Launch(name string, key any, fn func(ctx context.Context)) {
	s.mu.Lock()
	if sl, ok := s.slots[name]; ok {
		if reflect.DeepEqual(sl.key, key) {
			s.mu.Unlock()
			return
		}
		sl.cancel()
	}
	ctx, cancel := context.WithCancel(s.ctx)
	s.slots[name] = &slot{key: key, cancel: cancel}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer cancel()
		fn(ctx)
	}()
}

// Forget drops the named slot's key memory so the next Launch on it always
// starts a sequence. A running sequence is cancelled.
func (s *Scheduler) Forget(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sl, ok := s.slots[name]; ok {
		sl.cancel()
		delete(s.slots, name)
	}
}

// Wait blocks until every launched sequence has returned.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// Close cancels all running sequences, waits for them to return, and
// clears all slot state. The Scheduler remains usable after Close.
func (s *Scheduler) Close() {
	s.mu.Lock()
	for name, sl := range s.slots {
		sl.cancel()
		delete(s.slots, name)
	}
	s.mu.Unlock()
	s.wg.Wait()
}
