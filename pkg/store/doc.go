// Package store provides a small subscribable state container in the shape of
// zustand-style stores: an Initializer receives set/get functions plus the
// store handle and returns Entries holding both plain state and actions.
//
// Entries are classified by capability. A value is an action when it
// implements Action; everything else is plain state. Asynchronous actions
// carry an explicit marker by implementing AsyncAction, so middlewares never
// have to guess how an action completes.
//
// Middlewares (see Middleware and Chain) wrap an Initializer and may replace
// entries before the store adopts them. Set and Apply calls are serialized by
// the store; nothing else is.
package store
