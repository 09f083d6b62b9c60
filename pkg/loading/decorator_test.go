package loading_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-loading/pkg/loading"
	"github.com/goliatone/go-loading/pkg/store"
	"github.com/goliatone/go-loading/pkg/testsupport"
)

var errBoom = errors.New("boom")

func counterInit(set store.SetFunc, get store.GetFunc, api *store.Store) store.Entries {
	return store.Entries{
		"counter": 0,
		"inc": store.ActionFunc(func(ctx context.Context, args ...any) (any, error) {
			set(store.State{"counter": get().Int("counter") + 1})
			return nil, nil
		}),
	}
}

// spyInit exposes actions a, b, setLoading and fail, each recording the
// "loading" value seen when its body starts.
func spyInit(seen map[string]any, mu *sync.Mutex) store.Initializer {
	return func(set store.SetFunc, get store.GetFunc, api *store.Store) store.Entries {
		spy := func(name string, result any, err error) store.ActionFunc {
			return func(ctx context.Context, args ...any) (any, error) {
				mu.Lock()
				seen[name] = get()["loading"]
				mu.Unlock()
				return result, err
			}
		}
		return store.Entries{
			"title":      "spy",
			"a":          spy("a", "a-result", nil),
			"b":          spy("b", "b-result", nil),
			"setLoading": spy("setLoading", nil, nil),
			"fail":       spy("fail", nil, errBoom),
		}
	}
}

func TestDecorate_CounterScenario(t *testing.T) {
	t.Parallel()

	s := testsupport.MustCreate(t, loading.Decorate(counterInit))
	rec := testsupport.Record(t, s)

	if _, err := s.Invoke(context.Background(), "inc"); err != nil {
		t.Fatalf("invoke inc: %v", err)
	}

	want := []store.State{
		{"loading": true, "counter": 0},
		{"loading": true, "counter": 1},
		{"loading": false, "counter": 1},
	}
	if diff := cmp.Diff(want, rec.States()); diff != "" {
		t.Fatalf("state transitions mismatch (-want +got):\n%s", diff)
	}
}

func TestDecorate_FlagAroundEveryExitPath(t *testing.T) {
	t.Parallel()

	seen := map[string]any{}
	var mu sync.Mutex
	s := testsupport.MustCreate(t, loading.Decorate(spyInit(seen, &mu)))
	rec := testsupport.Record(t, s)

	got, err := s.Invoke(context.Background(), "a")
	if err != nil || got != "a-result" {
		t.Fatalf("expected a-result, got %v, %v", got, err)
	}
	if seen["a"] != true {
		t.Fatalf("expected loading=true inside a, got %v", seen["a"])
	}
	if s.Get().Bool("loading") {
		t.Fatalf("expected loading=false after a")
	}

	if _, err := s.Invoke(context.Background(), "fail"); !errors.Is(err, errBoom) {
		t.Fatalf("expected errBoom, got %v", err)
	}
	if seen["fail"] != true {
		t.Fatalf("expected loading=true inside fail, got %v", seen["fail"])
	}
	if s.Get().Bool("loading") {
		t.Fatalf("expected loading=false after failure")
	}

	want := []any{true, false, true, false}
	if diff := cmp.Diff(want, rec.Values("loading")); diff != "" {
		t.Fatalf("loading transitions mismatch (-want +got):\n%s", diff)
	}
}

func TestDecorate_PanicResetsFlagAndPropagates(t *testing.T) {
	t.Parallel()

	init := func(set store.SetFunc, get store.GetFunc, api *store.Store) store.Entries {
		return store.Entries{
			"explode": store.ActionFunc(func(ctx context.Context, args ...any) (any, error) {
				panic("kaboom")
			}),
		}
	}
	s := testsupport.MustCreate(t, loading.Decorate(init))

	func() {
		defer func() {
			if r := recover(); r != "kaboom" {
				t.Fatalf("expected panic to propagate unchanged, got %v", r)
			}
		}()
		_, _ = s.Invoke(context.Background(), "explode")
	}()

	if loadingValue, ok := s.Get()["loading"]; !ok || loadingValue != false {
		t.Fatalf("expected loading=false after panic, got %v (ok=%v)", loadingValue, ok)
	}
}

func TestDecorate_PanicInsideApplyResetsFlag(t *testing.T) {
	t.Parallel()

	init := func(set store.SetFunc, get store.GetFunc, api *store.Store) store.Entries {
		return store.Entries{
			"counter": 0,
			"corrupt": store.ActionFunc(func(ctx context.Context, args ...any) (any, error) {
				api.Apply(func(store.State) store.State { panic("bad patch") })
				return nil, nil
			}),
		}
	}
	s := testsupport.MustCreate(t, loading.Decorate(init))

	recovered := make(chan any, 1)
	go func() {
		defer func() { recovered <- recover() }()
		_, _ = s.Invoke(context.Background(), "corrupt")
	}()

	select {
	case r := <-recovered:
		if r != "bad patch" {
			t.Fatalf("expected panic to propagate unchanged, got %v", r)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("action did not return after panicking inside Apply")
	}

	want := store.State{"counter": 0, "loading": false}
	if diff := cmp.Diff(want, s.Get()); diff != "" {
		t.Fatalf("state after panic mismatch (-want +got):\n%s", diff)
	}
}

func TestDecorate_ReturnValuesRoundTrip(t *testing.T) {
	t.Parallel()

	echo := store.ActionFunc(func(ctx context.Context, args ...any) (any, error) {
		return append([]any{"echo"}, args...), nil
	})
	init := func(set store.SetFunc, get store.GetFunc, api *store.Store) store.Entries {
		return store.Entries{"echo": echo}
	}

	plain := testsupport.MustCreate(t, init)
	wrapped := testsupport.MustCreate(t, loading.Decorate(init))

	want, _ := plain.Invoke(context.Background(), "echo", 1, "two")
	got, err := wrapped.Invoke(context.Background(), "echo", 1, "two")
	if err != nil {
		t.Fatalf("invoke wrapped: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("wrapped result mismatch (-want +got):\n%s", diff)
	}
}

func TestDecorate_SelectionRules(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		opts    []loading.OptionFn
		toggles map[string]bool
	}{
		{
			name:    "defaults skip setLoading",
			toggles: map[string]bool{"a": true, "b": true, "setLoading": false},
		},
		{
			name:    "whitelist a",
			opts:    []loading.OptionFn{loading.WithWhitelist("a")},
			toggles: map[string]bool{"a": true, "b": false, "setLoading": false},
		},
		{
			name:    "blank whitelist wraps nothing",
			opts:    []loading.OptionFn{loading.WithWhitelist("")},
			toggles: map[string]bool{"a": false, "b": false, "setLoading": false},
		},
		{
			name:    "blacklist a",
			opts:    []loading.OptionFn{loading.WithBlacklist("a")},
			toggles: map[string]bool{"a": false, "b": true, "setLoading": false},
		},
		{
			name: "whitelist wins over blacklist",
			opts: []loading.OptionFn{
				loading.WithWhitelist("a"),
				loading.WithBlacklist("a", "b"),
			},
			toggles: map[string]bool{"a": true, "b": false},
		},
		{
			name:    "whitelisted setLoading wraps under blacklist policy",
			opts:    []loading.OptionFn{loading.WithWhitelist("setLoading")},
			toggles: map[string]bool{"a": false, "setLoading": true},
		},
		{
			name: "whitelisted setLoading skipped under always policy",
			opts: []loading.OptionFn{
				loading.WithWhitelist("setLoading", "a"),
				loading.WithReservedPolicy(loading.ReservedAlways),
			},
			toggles: map[string]bool{"a": true, "setLoading": false},
		},
		{
			name:    "custom reserved name",
			opts:    []loading.OptionFn{loading.WithReserved("b")},
			toggles: map[string]bool{"a": true, "b": false, "setLoading": true},
		},
		{
			name:    "unknown names are inert",
			opts:    []loading.OptionFn{loading.WithBlacklist("missing")},
			toggles: map[string]bool{"a": true, "b": true},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			seen := map[string]any{}
			var mu sync.Mutex
			s := testsupport.MustCreate(t, loading.Decorate(spyInit(seen, &mu), tc.opts...))

			for action, wantToggle := range tc.toggles {
				rec := testsupport.Record(t, s)
				if _, err := s.Invoke(context.Background(), action); err != nil {
					t.Fatalf("invoke %s: %v", action, err)
				}
				rec.Stop()

				toggled := len(rec.Values("loading")) > 0
				if toggled != wantToggle {
					t.Fatalf("action %s: expected toggled=%v, got %v", action, wantToggle, toggled)
				}
				mu.Lock()
				inside := seen[action]
				mu.Unlock()
				if wantToggle && inside != true {
					t.Fatalf("action %s: expected loading=true inside body, got %v", action, inside)
				}
			}
		})
	}
}

func TestDecorate_CustomVarName(t *testing.T) {
	t.Parallel()

	init := func(set store.SetFunc, get store.GetFunc, api *store.Store) store.Entries {
		return store.Entries{
			"loading": "untouched",
			"isBusy":  false,
			"work": store.ActionFunc(func(ctx context.Context, args ...any) (any, error) {
				return get().Bool("isBusy"), nil
			}),
		}
	}
	s := testsupport.MustCreate(t, loading.Decorate(init, loading.WithVarName("isBusy")))

	busy, err := s.Invoke(context.Background(), "work")
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if busy != true {
		t.Fatalf("expected isBusy=true inside body, got %v", busy)
	}

	want := store.State{"loading": "untouched", "isBusy": false}
	if diff := cmp.Diff(want, s.Get()); diff != "" {
		t.Fatalf("final state mismatch (-want +got):\n%s", diff)
	}
}

func TestDecorate_DoesNotMutateInitializerEntries(t *testing.T) {
	t.Parallel()

	original := store.ActionFunc(func(ctx context.Context, args ...any) (any, error) { return nil, nil })
	var produced store.Entries
	init := func(set store.SetFunc, get store.GetFunc, api *store.Store) store.Entries {
		produced = store.Entries{"count": 1, "run": original}
		return produced
	}

	decorated := loading.Decorate(init)
	entries := decorated(func(store.State) {}, func() store.State { return store.State{} }, nil)

	if _, ok := produced["run"].(store.ActionFunc); !ok {
		t.Fatalf("expected original entry to keep its type")
	}
	if entries["count"] != 1 {
		t.Fatalf("expected plain state to pass through, got %v", entries["count"])
	}
	if !store.IsAction(entries["run"]) {
		t.Fatalf("expected wrapped entry to stay an action")
	}
	if len(produced) != 2 || len(entries) != 2 {
		t.Fatalf("unexpected entry counts: produced=%d decorated=%d", len(produced), len(entries))
	}
}

func TestDecorate_NilInitializer(t *testing.T) {
	t.Parallel()

	if loading.Decorate(nil) != nil {
		t.Fatalf("expected nil initializer to stay nil")
	}
	nilEntries := func(store.SetFunc, store.GetFunc, *store.Store) store.Entries { return nil }
	if got := loading.Decorate(nilEntries)(nil, nil, nil); got != nil {
		t.Fatalf("expected nil entries to pass through, got %v", got)
	}
}

func TestDecorate_AsyncActions(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	init := func(set store.SetFunc, get store.GetFunc, api *store.Store) store.Entries {
		return store.Entries{
			"fetch": store.AsyncActionFunc(func(ctx context.Context, args ...any) *store.Future {
				return store.Go(func() (any, error) {
					<-release
					return "payload", nil
				})
			}),
			"explodeLater": store.AsyncActionFunc(func(ctx context.Context, args ...any) *store.Future {
				return store.Go(func() (any, error) { panic("later") })
			}),
			"explodeNow": store.AsyncActionFunc(func(ctx context.Context, args ...any) *store.Future {
				panic("now")
			}),
		}
	}
	s := testsupport.MustCreate(t, loading.Decorate(init))

	action, ok := s.Action("fetch")
	if !ok || !store.IsAsync(action) {
		t.Fatalf("expected wrapped fetch to keep the async marker")
	}

	f := s.Start(context.Background(), "fetch")
	if !s.Get().Bool("loading") {
		t.Fatalf("expected loading=true while fetch is pending")
	}
	close(release)
	got, err := f.Wait()
	if err != nil || got != "payload" {
		t.Fatalf("expected payload, got %v, %v", got, err)
	}
	if s.Get().Bool("loading") {
		t.Fatalf("expected loading=false after fetch")
	}

	_, err = s.Invoke(context.Background(), "explodeLater")
	var panicErr *store.PanicError
	if !errors.As(err, &panicErr) || panicErr.Value != "later" {
		t.Fatalf("expected PanicError(later), got %v", err)
	}
	if s.Get().Bool("loading") {
		t.Fatalf("expected loading=false after async panic")
	}

	func() {
		defer func() {
			if r := recover(); r != "now" {
				t.Fatalf("expected synchronous panic to propagate, got %v", r)
			}
		}()
		s.Start(context.Background(), "explodeNow")
	}()
	if s.Get().Bool("loading") {
		t.Fatalf("expected loading=false after synchronous start failure")
	}
}

func TestDecorate_CancelledCallerStillResets(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	init := func(set store.SetFunc, get store.GetFunc, api *store.Store) store.Entries {
		return store.Entries{
			"slow": store.AsyncActionFunc(func(ctx context.Context, args ...any) *store.Future {
				return store.Go(func() (any, error) {
					<-release
					return nil, nil
				})
			}),
		}
	}
	s := testsupport.MustCreate(t, loading.Decorate(init))

	done := make(chan struct{})
	s.Subscribe(func(next, prev store.State) {
		if v, ok := next["loading"]; ok && v == false {
			close(done)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Invoke(ctx, "slow"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if !s.Get().Bool("loading") {
		t.Fatalf("expected loading=true while the inner action still runs")
	}

	close(release)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("expected loading reset after inner completion")
	}
}

func TestDecorate_OnlyAsync(t *testing.T) {
	t.Parallel()

	init := func(set store.SetFunc, get store.GetFunc, api *store.Store) store.Entries {
		return store.Entries{
			"sync": store.ActionFunc(func(ctx context.Context, args ...any) (any, error) {
				return get()["loading"], nil
			}),
			"async": store.AsyncActionFunc(func(ctx context.Context, args ...any) *store.Future {
				return store.Resolved(get()["loading"], nil)
			}),
		}
	}
	s := testsupport.MustCreate(t, loading.Decorate(init, loading.WithOnlyAsync(true)))

	if got, _ := s.Invoke(context.Background(), "sync"); got != nil {
		t.Fatalf("expected sync action to stay unwrapped, saw loading=%v", got)
	}
	if got, _ := s.Invoke(context.Background(), "async"); got != true {
		t.Fatalf("expected async action to be wrapped, saw loading=%v", got)
	}
}

func TestDecorate_OverlappingCallsEndIdle(t *testing.T) {
	t.Parallel()

	s := testsupport.MustCreate(t, counterInit, loading.Middleware())

	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			_, err := s.Invoke(ctx, "inc")
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("overlapping invocations: %v", err)
	}

	if s.Get().Bool("loading") {
		t.Fatalf("expected loading=false once every invocation finished")
	}
}

type recordingObserver struct {
	mu     sync.Mutex
	events []string
}

func (o *recordingObserver) ActionStarted(name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, "start:"+name)
}

func (o *recordingObserver) ActionFinished(name string, err error, elapsed time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		o.events = append(o.events, "fail:"+name)
		return
	}
	o.events = append(o.events, "finish:"+name)
}

func TestDecorate_ObserverAndLogger(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	obs := &recordingObserver{}
	seen := map[string]any{}
	var mu sync.Mutex

	s := testsupport.MustCreate(t, loading.Decorate(spyInit(seen, &mu),
		loading.WithLogger(zap.New(core)),
		loading.WithObserver(obs),
		loading.WithBlacklist("b"),
	))

	if _, err := s.Invoke(context.Background(), "a"); err != nil {
		t.Fatalf("invoke a: %v", err)
	}
	_, _ = s.Invoke(context.Background(), "fail")
	_, _ = s.Invoke(context.Background(), "b")

	want := []string{"start:a", "finish:a", "start:fail", "fail:fail"}
	if diff := cmp.Diff(want, obs.events); diff != "" {
		t.Fatalf("observer events mismatch (-want +got):\n%s", diff)
	}

	wrapped := logs.FilterMessage("loading: action wrapped").Len()
	if wrapped != 2 {
		t.Fatalf("expected 2 wrapped log entries (a, fail), got %d", wrapped)
	}
	skipped := logs.FilterMessage("loading: action left unwrapped").FilterField(zap.String("reason", loading.ReasonBlacklisted))
	if skipped.Len() != 1 {
		t.Fatalf("expected b to be logged as blacklisted, got %d entries", skipped.Len())
	}
	if logs.FilterMessage("loading: action failed").Len() != 1 {
		t.Fatalf("expected one failure log entry")
	}
}
