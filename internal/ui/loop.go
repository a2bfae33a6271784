package ui

import (
	"context"
	"sync"
)

// Loop is the single-threaded event loop owning all view state.
// Functions handed to Dispatch run one at a time, in order, on the goroutine calling Run.
type Loop struct {
	mu       sync.Mutex
	queue    []func()
	wake     chan struct{}
	shutdown bool
	once     sync.Once
}

// New creates a new Loop
func New() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
	}
}

// Dispatch queues fn to run on the loop. It never blocks, and may be called from the loop itself.
// Functions dispatched after Shutdown are dropped.
func (l *Loop) Dispatch(fn func()) {
	l.mu.Lock()
	if l.shutdown {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run executes dispatched functions until the context is done or the loop is shut down
func (l *Loop) Run(ctx context.Context) error {
	for {
		for {
			fn, ok := l.next()
			if !ok {
				break
			}

			fn()

			if ctx.Err() != nil {
				return ctx.Err()
			}
		}

		if l.isShutdown() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Shutdown stops accepting work. Functions already queued still run.
func (l *Loop) Shutdown() {
	l.once.Do(func() {
		l.mu.Lock()
		l.shutdown = true
		l.mu.Unlock()

		select {
		case l.wake <- struct{}{}:
		default:
		}
	})
}

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.queue) == 0 {
		return nil, false
	}

	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn, true
}

func (l *Loop) isShutdown() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.shutdown
}
