// Package demo defines the counter store driven by the loading-demo command
// and the examples.
package demo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-loading/pkg/store"
)

// ErrFail is returned by the "fail" action.
var ErrFail = errors.New("demo: fail action always fails")

// DefaultDelay is how long slowInc sleeps when called without a duration.
const DefaultDelay = 200 * time.Millisecond

// Counter is a store initializer exposing a counter and a few actions:
//
//   - inc / dec adjust the counter by one
//   - slowInc is asynchronous and increments after a delay (optional
//     time.Duration or duration string argument)
//   - fail always returns ErrFail
//   - setLoading writes the loading field directly
//   - reset sets the counter back to zero
func Counter(set store.SetFunc, get store.GetFunc, api *store.Store) store.Entries {
	add := func(delta int) {
		api.Apply(func(prev store.State) store.State {
			return store.State{"counter": prev.Int("counter") + delta}
		})
	}

	return store.Entries{
		"counter": 0,
		"loading": false,
		"inc": store.ActionFunc(func(ctx context.Context, args ...any) (any, error) {
			add(1)
			return get().Int("counter"), nil
		}),
		"dec": store.ActionFunc(func(ctx context.Context, args ...any) (any, error) {
			add(-1)
			return get().Int("counter"), nil
		}),
		"slowInc": store.AsyncActionFunc(func(ctx context.Context, args ...any) *store.Future {
			delay, err := delayArg(args)
			if err != nil {
				return store.Resolved(nil, err)
			}
			return store.Go(func() (any, error) {
				select {
				case <-time.After(delay):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
				add(1)
				return get().Int("counter"), nil
			})
		}),
		"fail": store.ActionFunc(func(ctx context.Context, args ...any) (any, error) {
			return nil, ErrFail
		}),
		"setLoading": store.ActionFunc(func(ctx context.Context, args ...any) (any, error) {
			value := true
			if len(args) > 0 {
				if b, ok := args[0].(bool); ok {
					value = b
				}
			}
			set(store.State{"loading": value})
			return value, nil
		}),
		"reset": store.ActionFunc(func(ctx context.Context, args ...any) (any, error) {
			set(store.State{"counter": 0})
			return 0, nil
		}),
	}
}

func delayArg(args []any) (time.Duration, error) {
	if len(args) == 0 {
		return DefaultDelay, nil
	}
	switch v := args[0].(type) {
	case time.Duration:
		return v, nil
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("demo: slowInc delay: %w", err)
		}
		return d, nil
	default:
		return 0, fmt.Errorf("demo: slowInc delay must be a duration, got %T", v)
	}
}
