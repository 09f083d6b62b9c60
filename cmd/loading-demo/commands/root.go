package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-loading/internal/demo"
	"github.com/goliatone/go-loading/internal/logging"
	"github.com/goliatone/go-loading/pkg/loading"
	"github.com/goliatone/go-loading/pkg/metrics"
	"github.com/goliatone/go-loading/pkg/store"
)

type settings struct {
	configPath     string
	varName        string
	whitelist      []string
	blacklist      []string
	onlyAsync      bool
	reservedPolicy string
	logLevel       string
	logFormat      string
	metrics        bool
}

type app struct {
	mu     sync.Mutex
	out    io.Writer
	prompt prompter
	logger *zap.Logger
	store  *store.Store
	opts   loading.Options

	registry *prometheus.Registry
}

// Execute runs the root command against os.Args.
func Execute() error {
	return newRootCmd(os.Stdout, os.Stderr).Execute()
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	return buildRootCmd(&app{out: out, prompt: surveyPrompter{}}, errOut)
}

func buildRootCmd(a *app, errOut io.Writer) *cobra.Command {
	cfg := &settings{}

	root := &cobra.Command{
		Use:           "loading-demo",
		Short:         "Drive a counter store whose actions toggle a loading flag",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(errOut, cfg.logLevel, logging.Format(cfg.logFormat))
			if err != nil {
				return err
			}
			opts, err := resolveOptions(cmd, cfg)
			if err != nil {
				return err
			}
			opts.Logger = logger.Named("loading")
			if cfg.metrics {
				a.registry = prometheus.NewRegistry()
				opts.Observer = metrics.NewObserver(a.registry)
			}

			s, err := store.Create(demo.Counter, loading.Middleware(loading.WithOptions(opts)))
			if err != nil {
				return fmt.Errorf("create store: %w", err)
			}
			a.logger = logger
			a.store = s
			a.opts = opts
			return nil
		},
	}
	root.SetOut(a.out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&cfg.configPath, "config", "", "decorator options file (json, yaml or toml)")
	flags.StringVar(&cfg.varName, "var-name", "", "state field to toggle (default \"loading\")")
	flags.StringSliceVar(&cfg.whitelist, "whitelist", nil, "only wrap these actions")
	flags.StringSliceVar(&cfg.blacklist, "blacklist", nil, "never wrap these actions (ignored with --whitelist)")
	flags.BoolVar(&cfg.onlyAsync, "only-async", false, "only wrap asynchronous actions")
	flags.StringVar(&cfg.reservedPolicy, "reserved-policy", "", "reserved name policy: blacklist or always")
	flags.StringVar(&cfg.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flags.StringVar(&cfg.logFormat, "log-format", string(logging.FormatConsole), "log format: console or json")
	flags.BoolVar(&cfg.metrics, "metrics", false, "print invocation counters when the command ends")

	for _, sub := range []*cobra.Command{runCmd(a), interactiveCmd(a), burstCmd(a)} {
		sub.RunE = a.finishing(sub.RunE, errOut)
		root.AddCommand(sub)
	}
	return root
}

// finishing runs a command and then flushes metrics and logs, whether or not
// the command failed. cobra skips post-run hooks after a RunE error.
func (a *app) finishing(run func(*cobra.Command, []string) error, errOut io.Writer) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer a.finish(errOut)
		return run(cmd, args)
	}
}

func (a *app) finish(errOut io.Writer) {
	if a.registry != nil {
		if err := a.printMetrics(); err != nil {
			fmt.Fprintf(errOut, "metrics: %v\n", err)
		}
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// resolveOptions layers explicitly set flags over the optional config file.
func resolveOptions(cmd *cobra.Command, cfg *settings) (loading.Options, error) {
	opts := loading.DefaultOptions()
	if cfg.configPath != "" {
		dir, name := filepath.Split(cfg.configPath)
		if dir == "" {
			dir = "."
		}
		loaded, err := loading.LoadOptions(os.DirFS(dir), name)
		if err != nil {
			return loading.Options{}, err
		}
		opts = loaded
	}

	flags := cmd.Flags()
	fns := []loading.OptionFn{loading.WithOptions(opts)}
	if flags.Changed("var-name") {
		fns = append(fns, loading.WithVarName(cfg.varName))
	}
	if flags.Changed("whitelist") {
		fns = append(fns, loading.WithWhitelist(cfg.whitelist...))
	}
	if flags.Changed("blacklist") {
		fns = append(fns, loading.WithBlacklist(cfg.blacklist...))
	}
	if flags.Changed("only-async") {
		fns = append(fns, loading.WithOnlyAsync(cfg.onlyAsync))
	}
	if flags.Changed("reserved-policy") {
		policy, err := loading.ParseReservedPolicy(cfg.reservedPolicy)
		if err != nil {
			return loading.Options{}, err
		}
		fns = append(fns, loading.WithReservedPolicy(policy))
	}
	return loading.NewOptions(fns...), nil
}

func (a *app) printState(state store.State) {
	keys := make([]string, 0, len(state))
	for k := range state {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, state[k]))
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	fmt.Fprintf(a.out, "  state: {%s}\n", strings.Join(parts, ", "))
}

func (a *app) watch() func() {
	return a.store.Subscribe(func(next, prev store.State) {
		a.printState(next)
	})
}
