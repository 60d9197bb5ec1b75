package exam

import "github.com/mind-engage/certprep/internal/attempt"

// Notifier receives finished exercises. Notify must not block the caller and
// reports nothing back; delivery is best effort.
type Notifier interface {
	Notify(attempt.Submission)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(attempt.Submission)

func (f NotifierFunc) Notify(s attempt.Submission) { f(s) }

type discard struct{}

func (discard) Notify(attempt.Submission) {}
