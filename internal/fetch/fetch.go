package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Fetcher is an interface for retrieving the raw bytes behind a uri
type Fetcher interface {
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

// Func adapts a function to the Fetcher interface
type Func func(ctx context.Context, uri string) ([]byte, error)

// Fetch calls f
func (f Func) Fetch(ctx context.Context, uri string) ([]byte, error) {
	return f(ctx, uri)
}

// Errors
var (
	ErrNotFound          = errors.New("resource does not exist")
	ErrUnsupportedScheme = errors.New("unsupported uri scheme")
)

// Mux routes fetches to a Fetcher by uri scheme
type Mux struct {
	fetchers map[string]Fetcher
}

// NewMux returns an empty Mux
func NewMux() *Mux {
	return &Mux{
		fetchers: make(map[string]Fetcher),
	}
}

// Handle registers the fetcher for the given schemes.
// Registration is not safe for concurrent use with Fetch, finish it before the first fetch.
func (m *Mux) Handle(f Fetcher, schemes ...string) {
	for _, scheme := range schemes {
		m.fetchers[strings.ToLower(scheme)] = f
	}
}

// Fetch fetches uri with the fetcher registered for its scheme
func (m *Mux) Fetch(ctx context.Context, uri string) ([]byte, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, err
	}

	f, ok := m.fetchers[strings.ToLower(u.Scheme)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	return f.Fetch(ctx, uri)
}
