package loading

import "github.com/goliatone/go-loading/pkg/store"

// Skip reasons reported by Options.Decision.
const (
	ReasonWrapped      = "wrapped"
	ReasonNotAction    = "not an action"
	ReasonReserved     = "reserved name"
	ReasonNotWhitelist = "not in whitelist"
	ReasonBlacklisted  = "blacklisted"
	ReasonNotAsync     = "not async"
)

type selector struct {
	whitelist map[string]struct{}
	blacklist map[string]struct{}
	reserved  map[string]struct{}
	policy    ReservedPolicy
	onlyAsync bool
}

func newSelector(opts Options) selector {
	sel := selector{
		whitelist: toSet(opts.Whitelist),
		blacklist: toSet(opts.Blacklist),
		reserved:  toSet(opts.Reserved),
		policy:    opts.ReservedPolicy,
		onlyAsync: opts.OnlyAsync,
	}
	for name := range sel.reserved {
		sel.blacklist[name] = struct{}{}
	}
	return sel
}

func (s selector) decide(name string, value any) (bool, string) {
	if !store.IsAction(value) {
		return false, ReasonNotAction
	}
	if s.policy == ReservedAlways {
		if _, ok := s.reserved[name]; ok {
			return false, ReasonReserved
		}
	}
	if len(s.whitelist) > 0 {
		if _, ok := s.whitelist[name]; !ok {
			return false, ReasonNotWhitelist
		}
	} else if _, ok := s.blacklist[name]; ok {
		if _, reserved := s.reserved[name]; reserved {
			return false, ReasonReserved
		}
		return false, ReasonBlacklisted
	}
	if s.onlyAsync && !store.IsAsync(value) {
		return false, ReasonNotAsync
	}
	return true, ReasonWrapped
}

// Eligible reports whether an entry named name holding value would be
// wrapped under opts.
func (o Options) Eligible(name string, value any) bool {
	ok, _ := o.Decision(name, value)
	return ok
}

// Decision is Eligible plus the reason behind it.
func (o Options) Decision(name string, value any) (bool, string) {
	return newSelector(normalize(o)).decide(name, value)
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}
