package remote

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/DMarby/picsum-browser/internal/fetch"
	"github.com/DMarby/picsum-browser/internal/logger"
	"github.com/DMarby/picsum-browser/internal/tracing"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ErrLoad is the single error kind published by a failed load.
// Transport, status and decode failures are not told apart.
var ErrLoad = errors.New("failed to fetch or decode resource")

var loadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "picsum_browser",
	Subsystem: "remote",
	Name:      "loads_total",
	Help:      "Completed remote resource loads, by outcome.",
}, []string{"outcome"})

// State is the lifecycle state of a Remote
type State int

const (
	// NotStarted is the state before Load, and after Reset
	NotStarted State = iota
	// Dispatched means a fetch is in flight, further calls to Load are no-ops
	Dispatched
	// Succeeded means the value was fetched and decoded
	Succeeded
	// Failed means the fetch or the decode failed
	Failed
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case Dispatched:
		return "dispatched"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the content of the result cell.
// Value is only meaningful when State is Succeeded, Err only when it is Failed.
type Result[T any] struct {
	State State
	Value T
	Err   error
}

// Resolved reports whether the result is terminal
func (r Result[T]) Resolved() bool {
	return r.State == Succeeded || r.State == Failed
}

// DecodeFunc turns raw response bytes into a value, an error signals malformed input
type DecodeFunc[T any] func(data []byte) (T, error)

// Dispatcher runs functions on the goroutine that owns the UI
type Dispatcher interface {
	Dispatch(fn func())
}

// DispatchFunc adapts a function to the Dispatcher interface
type DispatchFunc func(fn func())

// Dispatch calls f
func (f DispatchFunc) Dispatch(fn func()) {
	f(fn)
}

// Loader holds what every Remote needs to load a resource
type Loader struct {
	Fetcher    fetch.Fetcher
	Dispatcher Dispatcher
	Log        *logger.Logger
	Tracer     *tracing.Tracer
}

type observer[T any] struct {
	id uint64
	fn func(Result[T])
}

// Remote is an observable result cell for a single uri
type Remote[T any] struct {
	loader *Loader
	uri    string
	decode DecodeFunc[T]

	mu         sync.Mutex
	result     Result[T]
	generation uint64
	observers  []observer[T]
	nextID     uint64
}

// New creates a Remote that has not started loading yet
func New[T any](loader *Loader, uri string, decode DecodeFunc[T]) *Remote[T] {
	return &Remote[T]{
		loader: loader,
		uri:    uri,
		decode: decode,
	}
}

// URI returns the uri the Remote loads
func (r *Remote[T]) URI() string {
	return r.uri
}

// Load starts fetching the resource in the background, unless a fetch has already been dispatched.
// Cancelling ctx does not cancel the fetch.
func (r *Remote[T]) Load(ctx context.Context) {
	r.mu.Lock()
	if r.result.State != NotStarted {
		r.mu.Unlock()
		return
	}
	r.result.State = Dispatched
	generation := r.generation
	r.mu.Unlock()

	go r.run(context.WithoutCancel(ctx), generation)
}

func (r *Remote[T]) run(ctx context.Context, generation uint64) {
	ctx, span := r.loader.Tracer.Start(ctx, "remote.Load")
	span.SetAttributes(attribute.String("uri", r.uri))
	defer span.End()

	result := Result[T]{State: Succeeded}
	value, err := r.fetchAndDecode(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.loader.Log.Warnw("error loading remote resource",
			"uri", r.uri,
			"error", err,
		)

		result = Result[T]{State: Failed, Err: fmt.Errorf("%w: %s", ErrLoad, err)}
		loadsTotal.WithLabelValues("failure").Inc()
	} else {
		result.Value = value
		loadsTotal.WithLabelValues("success").Inc()
	}

	r.loader.Dispatcher.Dispatch(func() {
		r.publish(generation, result)
	})
}

func (r *Remote[T]) fetchAndDecode(ctx context.Context) (value T, err error) {
	data, err := r.loader.Fetcher.Fetch(ctx, r.uri)
	if err != nil {
		return value, err
	}

	if len(data) == 0 {
		return value, errors.New("empty response")
	}

	return r.decode(data)
}

// publish stores the result and notifies observers, it must run on the UI loop
func (r *Remote[T]) publish(generation uint64, result Result[T]) {
	r.mu.Lock()
	if generation != r.generation {
		// Reset while the fetch was in flight
		r.mu.Unlock()
		return
	}
	r.result = result
	observers := r.snapshotObservers()
	r.mu.Unlock()

	for _, notify := range observers {
		notify(result)
	}
}

// Value returns the decoded value if the load succeeded
func (r *Remote[T]) Value() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.result.State != Succeeded {
		var zero T
		return zero, false
	}

	return r.result.Value, true
}

// Result returns the current content of the result cell
func (r *Remote[T]) Result() Result[T] {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.result
}

// State returns the lifecycle state
func (r *Remote[T]) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.result.State
}

// Subscribe registers fn to be called on the UI loop whenever a result is published.
// The returned function unsubscribes.
func (r *Remote[T]) Subscribe(fn func(Result[T])) (unsubscribe func()) {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.observers = append(r.observers, observer[T]{id, fn})
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		for i, o := range r.observers {
			if o.id == id {
				r.observers = append(r.observers[:i:i], r.observers[i+1:]...)
				return
			}
		}
	}
}

// Reset returns the Remote to NotStarted so the next Load fetches again.
// A fetch still in flight is ignored when it completes. Observers are notified of NotStarted on the UI loop,
// even when a Load follows right away, as Dispatched is never published.
func (r *Remote[T]) Reset() {
	result := Result[T]{State: NotStarted}

	r.mu.Lock()
	r.generation++
	generation := r.generation
	r.result = result
	r.mu.Unlock()

	r.loader.Dispatcher.Dispatch(func() {
		r.mu.Lock()
		if generation != r.generation {
			r.mu.Unlock()
			return
		}
		observers := r.snapshotObservers()
		r.mu.Unlock()

		for _, notify := range observers {
			notify(result)
		}
	})
}

func (r *Remote[T]) snapshotObservers() []func(Result[T]) {
	observers := make([]func(Result[T]), 0, len(r.observers))
	for _, o := range r.observers {
		observers = append(observers, o.fn)
	}

	return observers
}
