package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/DMarby/picsum-browser/internal/fetch"
	"github.com/DMarby/picsum-browser/internal/tracing"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// UserAgent is sent with every request
const UserAgent = "picsum-browser"

var fetchDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "picsum_browser",
	Subsystem: "fetch",
	Name:      "duration_seconds",
	Help:      "Time taken to fetch a remote resource over http, by response code.",
	Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
}, []string{"code"})

// Provider fetches http and https uris.
// A single Provider is shared by every loader in the process.
type Provider struct {
	client *http.Client
}

// New returns a Provider whose transport is traced with the given tracer
func New(tracer *tracing.Tracer) *Provider {
	transport := otelhttp.NewTransport(
		http.DefaultTransport,
		otelhttp.WithTracerProvider(tracer),
		otelhttp.WithPropagators(tracing.Propagator()),
	)

	return &Provider{
		client: &http.Client{
			Transport: transport,
		},
	}
}

// NewWithClient returns a Provider using the given client
func NewWithClient(client *http.Client) *Provider {
	return &Provider{client}
}

// Fetch performs a GET request and returns the response body.
// Responses other than 2xx are errors, 404 and 410 are fetch.ErrNotFound.
func (p *Provider) Fetch(ctx context.Context, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", UserAgent)

	start := time.Now()
	res, err := p.client.Do(req)
	if err != nil {
		fetchDurationSeconds.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return nil, err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	fetchDurationSeconds.WithLabelValues(strconv.Itoa(res.StatusCode)).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	switch {
	case res.StatusCode == http.StatusNotFound || res.StatusCode == http.StatusGone:
		return nil, fetch.ErrNotFound
	case res.StatusCode < 200 || res.StatusCode > 299:
		return nil, fmt.Errorf("unexpected status %s", res.Status)
	}

	return data, nil
}
