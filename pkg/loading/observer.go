package loading

import "time"

// Observer is notified around every wrapped invocation. Calls for overlapping
// invocations may interleave.
type Observer interface {
	ActionStarted(name string)
	ActionFinished(name string, err error, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ActionStarted(string) {}

func (nopObserver) ActionFinished(string, error, time.Duration) {}
