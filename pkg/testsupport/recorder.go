// Package testsupport holds helpers shared by store and decorator tests.
package testsupport

import (
	"sync"
	"testing"

	"github.com/goliatone/go-loading/pkg/store"
)

// MustCreate builds a store or fails the test.
func MustCreate(t *testing.T, init store.Initializer, middlewares ...store.Middleware) *store.Store {
	t.Helper()

	s, err := store.Create(init, middlewares...)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	return s
}

// Recorder captures every state a store publishes to its subscribers.
type Recorder struct {
	mu     sync.Mutex
	states []store.State
	cancel func()
}

// Record subscribes a new Recorder to s. The subscription ends with the test.
func Record(t *testing.T, s *store.Store) *Recorder {
	t.Helper()

	r := &Recorder{}
	r.cancel = s.Subscribe(func(next, prev store.State) {
		r.mu.Lock()
		r.states = append(r.states, next)
		r.mu.Unlock()
	})
	t.Cleanup(r.Stop)
	return r
}

// Stop ends the subscription.
func (r *Recorder) Stop() {
	if r != nil && r.cancel != nil {
		r.cancel()
	}
}

// States returns the recorded states in publish order.
func (r *Recorder) States() []store.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]store.State(nil), r.states...)
}

// Values returns the recorded values of field, skipping states where it is
// absent.
func (r *Recorder) Values(field string) []any {
	var out []any
	for _, state := range r.States() {
		if v, ok := state[field]; ok {
			out = append(out, v)
		}
	}
	return out
}
