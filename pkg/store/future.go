package store

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
)

// PanicError carries a panic recovered while a Future body was running.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("store: action panicked: %v", e.Value)
}

// Unwrap exposes the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Future is the result of an asynchronous action. It completes exactly once.
type Future struct {
	done  chan struct{}
	once  sync.Once
	value any
	err   error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Go runs fn on a new goroutine and returns a Future completed with its
// result. A panic inside fn completes the future with a *PanicError.
func Go(fn func() (any, error)) *Future {
	f := newFuture()
	go func() {
		var (
			value any
			err   error
		)
		defer func() {
			if r := recover(); r != nil {
				f.complete(nil, &PanicError{Value: r, Stack: debug.Stack()})
				return
			}
			f.complete(value, err)
		}()
		value, err = fn()
	}()
	return f
}

// Resolved returns an already completed Future.
func Resolved(value any, err error) *Future {
	f := newFuture()
	f.complete(value, err)
	return f
}

func (f *Future) complete(value any, err error) {
	f.once.Do(func() {
		f.value = value
		f.err = err
		close(f.done)
	})
}

// Done is closed once the future completes.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future completes.
func (f *Future) Wait() (any, error) {
	<-f.done
	return f.value, f.err
}

// Await blocks until the future completes or ctx ends. Ending ctx does not
// stop the underlying work.
func (f *Future) Await(ctx context.Context) (any, error) {
	if ctx == nil {
		return f.Wait()
	}
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
