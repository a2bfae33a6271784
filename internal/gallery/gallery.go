package gallery

import (
	"context"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/DMarby/picsum-browser/internal/handler"
	"github.com/DMarby/picsum-browser/internal/health"
	"github.com/DMarby/picsum-browser/internal/logger"
	"github.com/DMarby/picsum-browser/internal/photo"
	"github.com/DMarby/picsum-browser/internal/remote"
	"github.com/DMarby/picsum-browser/internal/tracing"
	"github.com/DMarby/picsum-browser/internal/view"
	"github.com/DMarby/picsum-browser/internal/web"
	"github.com/gorilla/mux"
	"golang.org/x/sync/singleflight"
)

const (
	defaultMaxWidth  = 1024
	defaultMaxHeight = 768
	maxImageSize     = 5000
)

// API is the http gallery
type API struct {
	Loader         *remote.Loader
	ListURL        string
	HealthChecker  *health.Checker
	Log            *logger.Logger
	Tracer         *tracing.Tracer
	HandlerTimeout time.Duration

	// ResolveWait is how long a request waits for an in-flight load before rendering the loading page
	ResolveWait time.Duration

	// MaxWidth and MaxHeight bound the image on the detail page
	MaxWidth  int
	MaxHeight int

	once    sync.Once
	list    *view.List
	mu      sync.Mutex
	details map[string]*view.Detail
	scaled  singleflight.Group
}

// Utility methods for logging
func (a *API) logError(r *http.Request, message string, err error) {
	a.Log.Errorw(message, handler.LogFields(r, "error", err)...)
}

// Router returns a http router
func (a *API) Router() http.Handler {
	a.init()

	router := mux.NewRouter()

	router.NotFoundHandler = handler.Handler(a.notFoundHandler)

	// Redirect trailing slashes
	router.StrictSlash(true)

	// Healthcheck
	router.Handle("/health", handler.Health(a.HealthChecker)).Methods("GET")

	// List view
	router.Handle("/", handler.Handler(a.listHandler)).Methods("GET")
	router.Handle("/retry", handler.Handler(a.listRetryHandler)).Methods("POST")

	// Detail view
	router.Handle("/photo/{id}", handler.Handler(a.detailHandler)).Methods("GET")
	router.Handle("/photo/{id}/retry", handler.Handler(a.detailRetryHandler)).Methods("POST")

	// Query parameters:
	// ?width={width} - Maximum width of the scaled image
	// ?height={height} - Maximum height of the scaled image
	router.Handle("/photo/{id}/image", handler.Handler(a.imageHandler)).Methods("GET")

	// Redirects to a photo of the list
	router.Handle("/random", handler.Handler(a.randomHandler)).Methods("GET")
	router.Handle("/seed/{seed}", handler.Handler(a.seedHandler)).Methods("GET")

	// Static files
	assets, _ := fs.Sub(web.Static, "embed/assets")
	router.PathPrefix("/assets/").HandlerFunc(fileHeaders(http.StripPrefix("/assets/", http.FileServer(http.FS(assets))).ServeHTTP))

	routeMatcher := &handler.MuxRouteMatcher{Router: router}

	// Set up handlers for adding a request id, handling panics, request logging, setting CORS headers, metrics, tracing, and handler execution timeout
	return handler.AddRequestID(
		handler.Recovery(a.Log,
			handler.Logger(a.Log,
				handler.CORS([]string{handler.RequestIDHeader},
					handler.Metrics(
						handler.Tracer(a.Tracer,
							http.TimeoutHandler(router, a.HandlerTimeout, "Something went wrong. Timed out."),
							routeMatcher),
						routeMatcher)),
				routeMatcher)))
}

func (a *API) init() {
	a.once.Do(func() {
		a.list = view.NewList(a.Loader, a.ListURL)
		a.details = make(map[string]*view.Detail)
		a.list.Observe(a.pruneDetails)

		if a.MaxWidth <= 0 {
			a.MaxWidth = defaultMaxWidth
		}

		if a.MaxHeight <= 0 {
			a.MaxHeight = defaultMaxHeight
		}
	})
}

// detail returns the detail view of p, creating it the first time
func (a *API) detail(p photo.Photo) *view.Detail {
	a.mu.Lock()
	defer a.mu.Unlock()

	d, ok := a.details[p.ID]
	if !ok {
		d = view.NewDetail(a.Loader, p.DownloadURL)
		a.details[p.ID] = d
	}

	return d
}

// pruneDetails drops the detail views of photos that are not in the loaded list
func (a *API) pruneDetails() {
	photos, ok := a.list.Photos()
	if !ok {
		return
	}

	ids := make(map[string]struct{}, len(photos))
	for _, p := range photos {
		ids[p.ID] = struct{}{}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for id := range a.details {
		if _, ok := ids[id]; !ok {
			delete(a.details, id)
		}
	}
}

type observable interface {
	Phase() view.Phase
	Observe(fn func()) (unsubscribe func())
}

// await blocks while v is loading, for at most ResolveWait
func (a *API) await(ctx context.Context, v observable) {
	if a.ResolveWait <= 0 || v.Phase() != view.Loading {
		return
	}

	changed := make(chan struct{}, 1)
	unsubscribe := v.Observe(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	timer := time.NewTimer(a.ResolveWait)
	defer timer.Stop()

	for v.Phase() == view.Loading {
		select {
		case <-changed:
		case <-timer.C:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Handle not found errors
var notFoundError = &handler.Error{
	Message: "page not found",
	Code:    http.StatusNotFound,
}

func (a *API) notFoundHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	return notFoundError
}

// Set headers for static file handlers
func fileHeaders(handler func(w http.ResponseWriter, r *http.Request)) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		handler(w, r)
	}
}
