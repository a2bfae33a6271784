package cmd

import (
	"fmt"

	"github.com/DMarby/picsum-browser/internal/fetch"
	"github.com/DMarby/picsum-browser/internal/fetch/file"
	"github.com/DMarby/picsum-browser/internal/fetch/spaces"
	"github.com/DMarby/picsum-browser/internal/fetch/web"
	"github.com/DMarby/picsum-browser/internal/tracing"
)

// FetchConfig configures the uri schemes that are served besides http and https
type FetchConfig struct {
	// FileRoot enables file:// uris beneath the directory
	FileRoot string
	// Spaces enables s3:// uris when an access key or endpoint is set
	Spaces spaces.Config
}

// NewFetcher returns a fetcher routing uris to a backend by scheme
func NewFetcher(tracer *tracing.Tracer, cfg FetchConfig) (*fetch.Mux, error) {
	mux := fetch.NewMux()
	mux.Handle(web.New(tracer), "http", "https")

	if cfg.FileRoot != "" {
		provider, err := file.New(cfg.FileRoot)
		if err != nil {
			return nil, fmt.Errorf("error initializing file fetcher: %w", err)
		}

		mux.Handle(provider, "file")
	}

	if cfg.Spaces.AccessKey != "" || cfg.Spaces.Endpoint != "" {
		provider, err := spaces.New(cfg.Spaces)
		if err != nil {
			return nil, fmt.Errorf("error initializing s3 fetcher: %w", err)
		}

		mux.Handle(provider, "s3")
	}

	return mux, nil
}
