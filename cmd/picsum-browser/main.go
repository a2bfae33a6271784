package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/DMarby/picsum-browser/internal/cmd"
	"github.com/DMarby/picsum-browser/internal/logger"
	"github.com/DMarby/picsum-browser/internal/photo"
	"github.com/DMarby/picsum-browser/internal/remote"
	"github.com/DMarby/picsum-browser/internal/terminal"
	"github.com/DMarby/picsum-browser/internal/tracing"
	"github.com/DMarby/picsum-browser/internal/ui"

	"github.com/jamiealquiza/envy"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

type options struct {
	listURL  string
	logLevel string
	logFile  string
	width    int
	height   int
	fetch    cmd.FetchConfig
}

func main() {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "picsum-browser",
		Short: "Browse Lorem Picsum photos in the terminal",
		Long: `Browse the Lorem Picsum photo list in the terminal.

Type the number of a photo to open it, b to go back to the list,
r to retry a failed load and q to quit.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(c *cobra.Command, args []string) error {
			return run(c.Context(), opts)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&opts.listURL, "list-url", photo.DefaultListURL, "photo list url")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error, dpanic, panic, fatal)")
	flags.StringVar(&opts.logFile, "log-file", "", "file to append logs to, logs go to stderr when empty")
	flags.IntVar(&opts.width, "width", 80, "terminal width in columns")
	flags.IntVar(&opts.height, "height", 24, "terminal height in rows")
	flags.StringVar(&opts.fetch.FileRoot, "file-root", "", "directory to serve file:// uris from, disabled when empty")
	flags.StringVar(&opts.fetch.Spaces.Endpoint, "s3-endpoint", "", "s3 compatible endpoint, e.g. a digitalocean spaces endpoint")
	flags.StringVar(&opts.fetch.Spaces.Region, "s3-region", "", "s3 region")
	flags.StringVar(&opts.fetch.Spaces.AccessKey, "s3-access-key", "", "s3 access key")
	flags.StringVar(&opts.fetch.Spaces.SecretKey, "s3-secret-key", "", "s3 secret key")
	flags.BoolVar(&opts.fetch.Spaces.ForcePathStyle, "s3-force-path-style", false, "use path style s3 addressing")

	// Parse environment variables
	envy.ParseCobra(rootCmd, envy.CobraConfig{Prefix: "PICSUM_BROWSER"})

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts *options) error {
	level, err := zapcore.ParseLevel(opts.logLevel)
	if err != nil {
		return err
	}

	// The terminal owns stdout
	var logOutput io.Writer = os.Stderr
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("error opening log file: %w", err)
		}
		defer f.Close()
		logOutput = f
	}

	// Initialize the logger
	log := logger.NewConsole(level, logOutput)
	defer log.Sync()

	// Set GOMAXPROCS
	maxprocs.Set(maxprocs.Logger(log.Debugf))

	tracer := tracing.Noop(log, "picsum-browser")

	// Initialize the fetchers
	fetcher, err := cmd.NewFetcher(tracer, opts.fetch)
	if err != nil {
		return err
	}

	// Set up context for shutting down
	ctx, shutdown := context.WithCancel(ctx)
	defer shutdown()

	loop := ui.New()
	browser := &terminal.Browser{
		Loader: &remote.Loader{
			Fetcher:    fetcher,
			Dispatcher: loop,
			Log:        log.Named("remote"),
			Tracer:     tracer,
		},
		ListURL: opts.listURL,
		Out:     os.Stdout,
		Log:     log.Named("browser"),
		Columns: opts.width,
		Rows:    opts.height,
		Clear:   true,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		// Wait for shutdown or an interrupt
		err := cmd.WaitForInterrupt(ctx)
		log.Infof("shutting down: %s", err)
		shutdown()
		return nil
	})

	// Reading stdin blocks and can not be canceled, so it is not part of the group
	go readCommands(ctx, os.Stdin, loop, browser, log, shutdown)

	loop.Dispatch(func() {
		browser.Start(ctx)
	})

	return g.Wait()
}

// readCommands hands every line of r to the browser on the UI loop, and shuts down once the commands read before the end of input have run
func readCommands(ctx context.Context, r io.Reader, loop *ui.Loop, browser *terminal.Browser, log *logger.Logger, shutdown func()) {
	defer loop.Dispatch(shutdown)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		loop.Dispatch(func() {
			if !browser.Handle(ctx, line) {
				shutdown()
			}
		})
	}

	if err := scanner.Err(); err != nil {
		log.Warnf("error reading input: %s", err)
	}
}
