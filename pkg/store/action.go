package store

import "context"

// State holds plain state fields keyed by name.
type State map[string]any

// Entries is the initializer output: plain state values and actions keyed by
// name.
type Entries map[string]any

// Action is an invocable store entry.
type Action interface {
	Invoke(ctx context.Context, args ...any) (any, error)
}

// AsyncAction marks an action that completes through a Future. Invoke on an
// AsyncAction is expected to block until the future completes.
type AsyncAction interface {
	Action
	Start(ctx context.Context, args ...any) *Future
}

// ActionFunc adapts a function into a synchronous Action.
type ActionFunc func(ctx context.Context, args ...any) (any, error)

// Invoke calls the underlying function.
func (fn ActionFunc) Invoke(ctx context.Context, args ...any) (any, error) {
	return fn(ctx, args...)
}

// AsyncActionFunc adapts a future-returning function into an AsyncAction.
type AsyncActionFunc func(ctx context.Context, args ...any) *Future

// Start calls the underlying function. A nil future is treated as resolved
// with no value.
func (fn AsyncActionFunc) Start(ctx context.Context, args ...any) *Future {
	f := fn(ctx, args...)
	if f == nil {
		return Resolved(nil, nil)
	}
	return f
}

// Invoke starts the action and waits for its result or for ctx to end.
func (fn AsyncActionFunc) Invoke(ctx context.Context, args ...any) (any, error) {
	return fn.Start(ctx, args...).Await(ctx)
}

// IsAction reports whether value is invocable.
func IsAction(value any) bool {
	_, ok := value.(Action)
	return ok
}

// IsAsync reports whether value carries the asynchronous marker.
func IsAsync(value any) bool {
	_, ok := value.(AsyncAction)
	return ok
}
