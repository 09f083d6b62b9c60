// Package loading decorates store initializers so that selected actions
// toggle a boolean "in-progress" field while they run.
//
// Every wrapped invocation sets the field (default "loading") to true before
// the action body starts and back to false on every exit path, including
// returned errors and panics. The action's own result is returned unchanged.
//
// Selection follows three rules:
//
//   - a non-empty Whitelist wraps only the named actions;
//   - otherwise every action is wrapped except those in Blacklist and the
//     Reserved names ("setLoading" by default);
//   - OnlyAsync further restricts wrapping to actions implementing
//     store.AsyncAction.
//
// ReservedPolicy decides whether Reserved names also win over a Whitelist.
//
// The flag is not a counter. Overlapping invocations race on the same field
// and the last completed transition wins.
package loading
