package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrNilInitializer is returned when a store is created without an
	// initializer or the initializer returns nil entries.
	ErrNilInitializer = errors.New("store: initializer is required")
	// ErrActionNotFound is returned when invoking an unknown action.
	ErrActionNotFound = errors.New("store: action not found")
)

// Listener receives the state after and before every change.
type Listener func(next, prev State)

// Store holds plain state and actions produced by an Initializer and notifies
// subscribers after every Set or Apply.
type Store struct {
	mu        sync.Mutex
	state     State
	actions   *actionRegistry
	lmu       sync.RWMutex
	listeners map[int]Listener
	nextID    int
}

// New creates a store from init. The initializer receives the store's own set
// and get functions plus the store handle; set calls made while the
// initializer runs are applied before its entries are adopted.
func New(init Initializer) (*Store, error) {
	if init == nil {
		return nil, ErrNilInitializer
	}

	s := &Store{
		state:     State{},
		actions:   newActionRegistry(),
		listeners: make(map[int]Listener),
	}

	entries := init(s.Set, s.Get, s)
	if entries == nil {
		return nil, ErrNilInitializer
	}

	s.mu.Lock()
	for name, value := range entries {
		s.adopt(name, value)
	}
	s.mu.Unlock()
	return s, nil
}

// Create builds a store from init wrapped by middlewares (see Chain).
func Create(init Initializer, middlewares ...Middleware) (*Store, error) {
	if init == nil {
		return nil, ErrNilInitializer
	}
	return New(Chain(init, middlewares...))
}

// adopt must be called with s.mu held.
func (s *Store) adopt(name string, value any) {
	if action, ok := value.(Action); ok {
		delete(s.state, name)
		s.actions.put(name, action)
		return
	}
	s.actions.remove(name)
	s.state[name] = value
}

// Set shallow-merges patch into the state. Action values in the patch replace
// the action registered under that name.
func (s *Store) Set(patch State) {
	if s == nil || len(patch) == 0 {
		return
	}
	s.Apply(func(State) State { return patch })
}

// Apply merges the patch returned by fn. fn receives a snapshot of the
// current state and runs while other Set and Apply calls are blocked. The
// lock is not reentrant: fn must not call Get, Set or Apply on the same store.
// A panic in fn leaves the state untouched and propagates to the caller.
func (s *Store) Apply(fn func(prev State) State) {
	if s == nil || fn == nil {
		return
	}

	next, prev, changed := s.merge(fn)
	if changed {
		s.notify(next, prev)
	}
}

func (s *Store) merge(fn func(prev State) State) (next, prev State, changed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev = s.state.Clone()
	patch := fn(prev.Clone())
	if len(patch) == 0 {
		return nil, nil, false
	}
	for name, value := range patch {
		s.adopt(name, value)
	}
	return s.state.Clone(), prev, true
}

// Get returns a deep copy of the current state.
func (s *Store) Get() State {
	if s == nil {
		return State{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Value resolves a dotted path against the current state.
func (s *Store) Value(path string) (any, bool) {
	return s.Get().Lookup(path)
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	if s == nil || l == nil {
		return func() {}
	}
	s.lmu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.lmu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.lmu.Lock()
			delete(s.listeners, id)
			s.lmu.Unlock()
		})
	}
}

// Destroy removes every subscriber. State and actions stay usable.
func (s *Store) Destroy() {
	if s == nil {
		return
	}
	s.lmu.Lock()
	s.listeners = make(map[int]Listener)
	s.lmu.Unlock()
}

func (s *Store) notify(next, prev State) {
	s.lmu.RLock()
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	listeners := make([]Listener, 0, len(ids))
	sort.Ints(ids)
	for _, id := range ids {
		listeners = append(listeners, s.listeners[id])
	}
	s.lmu.RUnlock()

	for _, l := range listeners {
		l(next, prev)
	}
}

// Action returns the action registered under name.
func (s *Store) Action(name string) (Action, bool) {
	if s == nil {
		return nil, false
	}
	action, err := s.actions.get(name)
	if err != nil {
		return nil, false
	}
	return action, true
}

// HasAction reports whether an action is registered under name.
func (s *Store) HasAction(name string) bool {
	return s != nil && s.actions.has(name)
}

// Actions returns the sorted action names.
func (s *Store) Actions() []string {
	if s == nil {
		return nil
	}
	return s.actions.list()
}

// Invoke runs the named action and returns its outcome unchanged.
func (s *Store) Invoke(ctx context.Context, name string, args ...any) (any, error) {
	if s == nil {
		return nil, fmt.Errorf("store: action %q: %w", name, ErrActionNotFound)
	}
	action, err := s.actions.get(name)
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return action.Invoke(ctx, args...)
}

// Start runs the named action without waiting. Synchronous actions run on a
// new goroutine.
func (s *Store) Start(ctx context.Context, name string, args ...any) *Future {
	if s == nil {
		return Resolved(nil, fmt.Errorf("store: action %q: %w", name, ErrActionNotFound))
	}
	action, err := s.actions.get(name)
	if err != nil {
		return Resolved(nil, err)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if async, ok := action.(AsyncAction); ok {
		return async.Start(ctx, args...)
	}
	return Go(func() (any, error) {
		return action.Invoke(ctx, args...)
	})
}
