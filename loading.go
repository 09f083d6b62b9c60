// Package loading is the top-level entry point of go-loading. It re-exports
// the store and decorator types most callers need so a decorated store can be
// created with a single import.
package loading

import (
	pkgloading "github.com/goliatone/go-loading/pkg/loading"
	"github.com/goliatone/go-loading/pkg/store"
)

// Store aliases store.Store.
type Store = store.Store

// State aliases store.State.
type State = store.State

// Entries aliases store.Entries.
type Entries = store.Entries

// Initializer aliases store.Initializer.
type Initializer = store.Initializer

// Options aliases the decorator configuration.
type Options = pkgloading.Options

// OptionFn aliases the decorator option function.
type OptionFn = pkgloading.OptionFn

// Create builds a store from init with every eligible action wrapped so it
// toggles the loading field while running.
func Create(init Initializer, options ...OptionFn) (*Store, error) {
	return store.Create(init, pkgloading.Middleware(options...))
}

// Decorate forwards to the decorator package for callers composing their own
// middleware chain.
func Decorate(init Initializer, options ...OptionFn) Initializer {
	return pkgloading.Decorate(init, options...)
}

// WithWhitelist forwards pkg/loading.WithWhitelist.
func WithWhitelist(names ...string) OptionFn {
	return pkgloading.WithWhitelist(names...)
}

// WithBlacklist forwards pkg/loading.WithBlacklist.
func WithBlacklist(names ...string) OptionFn {
	return pkgloading.WithBlacklist(names...)
}

// WithVarName forwards pkg/loading.WithVarName.
func WithVarName(name string) OptionFn {
	return pkgloading.WithVarName(name)
}
