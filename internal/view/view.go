package view

import (
	"github.com/DMarby/picsum-browser/internal/remote"
)

// Phase is what a view currently shows
type Phase int

const (
	// Loading shows a progress indicator
	Loading Phase = iota
	// Loaded shows the value
	Loaded
	// Failed shows an error with a retry affordance
	Failed
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

func phaseOf(state remote.State) Phase {
	switch state {
	case remote.Succeeded:
		return Loaded
	case remote.Failed:
		return Failed
	default:
		return Loading
	}
}

func observe[T any](r *remote.Remote[T], fn func()) (unsubscribe func()) {
	return r.Subscribe(func(remote.Result[T]) {
		fn()
	})
}
