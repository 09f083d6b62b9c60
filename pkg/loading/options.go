package loading

import (
	"strings"

	"go.uber.org/zap"
)

// DefaultVarName is the state field toggled when Options.VarName is empty.
const DefaultVarName = "loading"

// ReservedPolicy controls how Reserved names interact with a Whitelist.
type ReservedPolicy string

const (
	// ReservedInBlacklist merges reserved names into the blacklist only. A
	// whitelist naming a reserved action still wraps it.
	ReservedInBlacklist ReservedPolicy = "blacklist"
	// ReservedAlways never wraps reserved names, whitelist or not.
	ReservedAlways ReservedPolicy = "always"
)

// DefaultReserved lists the names excluded from wrapping unless configured
// otherwise. An action that sets the flag itself would immediately overwrite
// the decorator's own write.
var DefaultReserved = []string{"setLoading"}

// Options configures the decorator. All fields are optional.
type Options struct {
	Whitelist      []string       `json:"whitelist,omitempty" yaml:"whitelist,omitempty" toml:"whitelist,omitempty"`
	Blacklist      []string       `json:"blacklist,omitempty" yaml:"blacklist,omitempty" toml:"blacklist,omitempty"`
	VarName        string         `json:"loadingVarName,omitempty" yaml:"loadingVarName,omitempty" toml:"loadingVarName,omitempty"`
	OnlyAsync      bool           `json:"onlyAsync,omitempty" yaml:"onlyAsync,omitempty" toml:"onlyAsync,omitempty"`
	Reserved       []string       `json:"reserved,omitempty" yaml:"reserved,omitempty" toml:"reserved,omitempty"`
	ReservedPolicy ReservedPolicy `json:"reservedPolicy,omitempty" yaml:"reservedPolicy,omitempty" toml:"reservedPolicy,omitempty"`

	Logger   *zap.Logger `json:"-" yaml:"-" toml:"-"`
	Observer Observer    `json:"-" yaml:"-" toml:"-"`
}

// OptionFn mutates Options.
type OptionFn func(*Options)

// DefaultOptions returns the configuration used when no options are given.
func DefaultOptions() Options {
	return Options{
		VarName:        DefaultVarName,
		Reserved:       append([]string{}, DefaultReserved...),
		ReservedPolicy: ReservedInBlacklist,
	}
}

// NewOptions applies fns over DefaultOptions and normalises the result.
func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	return normalize(opts)
}

func normalize(opts Options) Options {
	opts.VarName = strings.TrimSpace(opts.VarName)
	if opts.VarName == "" {
		opts.VarName = DefaultVarName
	}
	if opts.ReservedPolicy == "" {
		opts.ReservedPolicy = ReservedInBlacklist
	}
	opts.Whitelist = copyNames(opts.Whitelist)
	opts.Blacklist = copyNames(opts.Blacklist)
	opts.Reserved = cleanNames(opts.Reserved)
	if len(opts.Reserved) == 0 {
		opts.Reserved = append([]string{}, DefaultReserved...)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	return opts
}

// copyNames keeps list entries verbatim so a whitelist holding only blank
// names still counts as set and matches nothing.
func copyNames(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	return append([]string(nil), names...)
}

func cleanNames(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// WithWhitelist restricts wrapping to names. Passing no names clears it.
func WithWhitelist(names ...string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Whitelist = append([]string{}, names...)
	}
}

// WithBlacklist excludes names from wrapping. Ignored when a whitelist is set.
func WithBlacklist(names ...string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Blacklist = append([]string{}, names...)
	}
}

// WithVarName toggles name instead of "loading".
func WithVarName(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.VarName = name
	}
}

// WithOnlyAsync wraps only actions implementing store.AsyncAction.
func WithOnlyAsync(enabled bool) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.OnlyAsync = enabled
	}
}

// WithReserved replaces the implicitly excluded names. An empty list restores
// DefaultReserved.
func WithReserved(names ...string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Reserved = append([]string{}, names...)
	}
}

// WithReservedPolicy selects how reserved names interact with a whitelist.
func WithReservedPolicy(policy ReservedPolicy) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.ReservedPolicy = policy
	}
}

// WithLogger enables debug logging of wrapping decisions and invocations.
func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

// WithObserver receives a callback around every wrapped invocation.
func WithObserver(observer Observer) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Observer = observer
	}
}

// WithOptions copies every field of opts, for callers holding a loaded
// configuration.
func WithOptions(opts Options) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		*o = opts
		o.Whitelist = append([]string(nil), opts.Whitelist...)
		o.Blacklist = append([]string(nil), opts.Blacklist...)
		o.Reserved = append([]string(nil), opts.Reserved...)
	}
}
