package loading

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-loading/pkg/store"
)

// Decorate returns an initializer that behaves like init but wraps selected
// actions so they toggle the loading field while running.
func Decorate(init store.Initializer, fns ...OptionFn) store.Initializer {
	return DecorateWithOptions(init, NewOptions(fns...))
}

// DecorateWithOptions is Decorate with a prepared Options value.
func DecorateWithOptions(init store.Initializer, opts Options) store.Initializer {
	if init == nil {
		return nil
	}
	opts = normalize(opts)

	return func(set store.SetFunc, get store.GetFunc, api *store.Store) store.Entries {
		entries := init(set, get, api)
		if entries == nil {
			return nil
		}

		sel := newSelector(opts)
		out := make(store.Entries, len(entries))
		for _, name := range sortedNames(entries) {
			value := entries[name]
			ok, reason := sel.decide(name, value)
			if !ok {
				if reason != ReasonNotAction {
					opts.Logger.Debug("loading: action left unwrapped",
						zap.String("action", name),
						zap.String("reason", reason),
					)
				}
				out[name] = value
				continue
			}
			out[name] = wrap(name, value.(store.Action), set, opts)
			opts.Logger.Debug("loading: action wrapped",
				zap.String("action", name),
				zap.Bool("async", store.IsAsync(value)),
				zap.String("field", opts.VarName),
			)
		}
		return out
	}
}

// Middleware exposes Decorate as a store.Middleware.
func Middleware(fns ...OptionFn) store.Middleware {
	opts := NewOptions(fns...)
	return func(init store.Initializer) store.Initializer {
		return DecorateWithOptions(init, opts)
	}
}

func wrap(name string, action store.Action, set store.SetFunc, opts Options) store.Action {
	t := toggler{name: name, set: set, opts: opts}
	if async, ok := action.(store.AsyncAction); ok {
		return store.AsyncActionFunc(func(ctx context.Context, args ...any) *store.Future {
			return t.start(ctx, async, args)
		})
	}
	return store.ActionFunc(func(ctx context.Context, args ...any) (any, error) {
		return t.invoke(ctx, action, args)
	})
}

type toggler struct {
	name string
	set  store.SetFunc
	opts Options
}

func (t toggler) begin() time.Time {
	t.set(store.State{t.opts.VarName: true})
	t.opts.Observer.ActionStarted(t.name)
	return time.Now()
}

func (t toggler) end(started time.Time, err error) {
	t.set(store.State{t.opts.VarName: false})
	elapsed := time.Since(started)
	t.opts.Observer.ActionFinished(t.name, err, elapsed)
	if err != nil {
		t.opts.Logger.Debug("loading: action failed",
			zap.String("action", t.name),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return
	}
	t.opts.Logger.Debug("loading: action finished",
		zap.String("action", t.name),
		zap.Duration("elapsed", elapsed),
	)
}

func (t toggler) invoke(ctx context.Context, action store.Action, args []any) (value any, err error) {
	started := t.begin()
	completed := false
	defer func() {
		if !completed {
			t.end(started, errPanicked)
			return
		}
		t.end(started, err)
	}()

	value, err = action.Invoke(ctx, args...)
	completed = true
	return value, err
}

func (t toggler) start(ctx context.Context, action store.AsyncAction, args []any) *store.Future {
	started := t.begin()
	handedOff := false
	defer func() {
		if !handedOff {
			t.end(started, errPanicked)
		}
	}()

	inner := action.Start(ctx, args...)
	handedOff = true
	if inner == nil {
		inner = store.Resolved(nil, nil)
	}

	return store.Go(func() (value any, err error) {
		defer func() { t.end(started, err) }()
		return inner.Wait()
	})
}

func sortedNames(entries store.Entries) []string {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
