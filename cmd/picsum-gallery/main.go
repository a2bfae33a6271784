package main

import (
	"context"
	"flag"
	"net/http"
	"time"

	"github.com/DMarby/picsum-browser/internal/cmd"
	"github.com/DMarby/picsum-browser/internal/fetch/spaces"
	"github.com/DMarby/picsum-browser/internal/gallery"
	"github.com/DMarby/picsum-browser/internal/health"
	"github.com/DMarby/picsum-browser/internal/logger"
	"github.com/DMarby/picsum-browser/internal/metrics"
	"github.com/DMarby/picsum-browser/internal/photo"
	"github.com/DMarby/picsum-browser/internal/remote"
	"github.com/DMarby/picsum-browser/internal/tracing"
	"github.com/DMarby/picsum-browser/internal/ui"

	"github.com/jamiealquiza/envy"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
)

// Comandline flags
var (
	// Global
	listen        = flag.String("listen", ":8080", "listen address")
	metricsListen = flag.String("metrics-listen", "127.0.0.1:8082", "metrics listen address")
	listURL       = flag.String("list-url", photo.DefaultListURL, "photo list url")
	loglevel      = zap.LevelFlag("log-level", zap.InfoLevel, "log level (default \"info\") (debug, info, warn, error, dpanic, panic, fatal)")
	tracingOn     = flag.Bool("tracing", false, "export traces over otlp, configured with the OTEL_EXPORTER_OTLP_* environment variables")
	resolveWait   = flag.Duration("resolve-wait", 2*time.Second, "how long a request waits for a load in flight before rendering the loading page")

	// Fetch - File
	fileRoot = flag.String("file-root", "", "directory to serve file:// uris from, disabled when empty")

	// Fetch - S3
	s3Endpoint       = flag.String("s3-endpoint", "", "s3 compatible endpoint, e.g. a digitalocean spaces endpoint")
	s3Region         = flag.String("s3-region", "", "s3 region")
	s3AccessKey      = flag.String("s3-access-key", "", "s3 access key")
	s3SecretKey      = flag.String("s3-secret-key", "", "s3 secret key")
	s3ForcePathStyle = flag.Bool("s3-force-path-style", false, "use path style s3 addressing")
)

func main() {
	// Parse environment variables
	envy.Parse("PICSUM_GALLERY")

	// Parse commandline flags
	flag.Parse()

	// Initialize the logger
	log := logger.New(*loglevel)
	defer log.Sync()

	// Set GOMAXPROCS
	maxprocs.Set(maxprocs.Logger(log.Infof))

	// Set up context for shutting down
	shutdownCtx, shutdown := context.WithCancel(context.Background())
	defer shutdown()

	// Initialize tracing
	tracer := tracing.Noop(log, "picsum-gallery")
	if *tracingOn {
		var err error
		tracer, err = tracing.New(shutdownCtx, log, "picsum-gallery")
		if err != nil {
			log.Fatalf("error initializing tracing: %s", err)
		}
	}
	defer tracer.Shutdown(context.Background())

	// Initialize the fetchers
	fetcher, err := cmd.NewFetcher(tracer, cmd.FetchConfig{
		FileRoot: *fileRoot,
		Spaces: spaces.Config{
			Endpoint:       *s3Endpoint,
			Region:         *s3Region,
			AccessKey:      *s3AccessKey,
			SecretKey:      *s3SecretKey,
			ForcePathStyle: *s3ForcePathStyle,
		},
	})
	if err != nil {
		log.Fatalf("error initializing fetchers: %s", err)
	}

	// Start the UI loop that publishes load results
	loop := ui.New()
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		if err := loop.Run(shutdownCtx); err != nil {
			log.Debugf("ui loop stopped: %s", err)
		}
	}()

	// Initialize and start the health checker
	checkerCtx, checkerCancel := context.WithCancel(context.Background())
	defer checkerCancel()

	checker := &health.Checker{
		Ctx:     checkerCtx,
		Fetcher: fetcher,
		ListURL: *listURL,
		Log:     log.Named("health"),
	}
	go checker.Run()

	// Start the metrics http server
	go metrics.Serve(shutdownCtx, log, checker, *metricsListen)

	// Start and listen on http
	api := &gallery.API{
		Loader: &remote.Loader{
			Fetcher:    fetcher,
			Dispatcher: loop,
			Log:        log.Named("remote"),
			Tracer:     tracer,
		},
		ListURL:        *listURL,
		HealthChecker:  checker,
		Log:            log,
		Tracer:         tracer,
		HandlerTimeout: cmd.HandlerTimeout,
		ResolveWait:    *resolveWait,
	}
	server := &http.Server{
		Addr:         *listen,
		Handler:      api.Router(),
		ReadTimeout:  cmd.ReadTimeout,
		WriteTimeout: cmd.WriteTimeout,
		ErrorLog:     logger.NewHTTPErrorLog(log),
	}

	go func() {
		if err := server.ListenAndServe(); err != nil {
			log.Infof("shutting down the http server: %s", err)
			shutdown()
		}
	}()

	log.Infof("http server listening on %s", *listen)

	// Wait for shutdown or error
	err = cmd.WaitForInterrupt(shutdownCtx)
	log.Infof("shutting down: %s", err)

	// Shut down http server
	serverCtx, serverCancel := context.WithTimeout(context.Background(), cmd.ShutdownTimeout)
	defer serverCancel()
	if err := server.Shutdown(serverCtx); err != nil {
		log.Warnf("error shutting down: %s", err)
	}

	loop.Shutdown()
	shutdown()
	<-loopDone
}
