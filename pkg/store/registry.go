package store

import (
	"fmt"
	"sort"
	"sync"
)

// actionRegistry stores actions by name.
type actionRegistry struct {
	mu      sync.RWMutex
	actions map[string]Action
}

func newActionRegistry() *actionRegistry {
	return &actionRegistry{
		actions: make(map[string]Action),
	}
}

func (r *actionRegistry) put(name string, action Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[name] = action
}

func (r *actionRegistry) remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.actions, name)
}

func (r *actionRegistry) get(name string) (Action, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	action, ok := r.actions[name]
	if !ok {
		return nil, fmt.Errorf("store: action %q: %w", name, ErrActionNotFound)
	}
	return action, nil
}

func (r *actionRegistry) has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.actions[name]
	return ok
}

// list returns a sorted list of action names.
func (r *actionRegistry) list() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
