package loading

import "errors"

// errPanicked is reported to observers when a wrapped action panics. The
// panic itself keeps propagating.
var errPanicked = errors.New("loading: action panicked")
