package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/DMarby/picsum-browser/internal/fetch"
)

// Fetcher is a mock fetcher serving canned responses
type Fetcher struct {
	// Responses maps a uri to its payload, uris without an entry return fetch.ErrNotFound
	Responses map[string][]byte
	// Gate, if set, blocks every fetch until it is closed or the context is done
	Gate chan struct{}

	mu    sync.Mutex
	calls map[string]int
}

// Fetch returns the canned response for uri
func (f *Fetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[uri]++
	f.mu.Unlock()

	if f.Gate != nil {
		select {
		case <-f.Gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if uri == "error://" {
		return nil, fmt.Errorf("fetch error")
	}

	data, ok := f.Responses[uri]
	if !ok {
		return nil, fetch.ErrNotFound
	}

	return data, nil
}

// Calls returns how many times uri has been fetched
func (f *Fetcher) Calls(uri string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls[uri]
}
