package store

// SetFunc shallow-merges patch into the store state.
type SetFunc func(patch State)

// GetFunc returns a snapshot of the current state.
type GetFunc func() State

// Initializer produces the initial entries of a store.
type Initializer func(set SetFunc, get GetFunc, api *Store) Entries

// Middleware wraps an Initializer, typically replacing some of its entries.
type Middleware func(Initializer) Initializer

// Chain applies middlewares to init. The first middleware is the outermost, so
// it sees the entries produced by every later one.
func Chain(init Initializer, middlewares ...Middleware) Initializer {
	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i] == nil {
			continue
		}
		init = middlewares[i](init)
	}
	return init
}
