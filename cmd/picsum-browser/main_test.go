package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/DMarby/picsum-browser/internal/fetch/mock"
	"github.com/DMarby/picsum-browser/internal/logger"
	"github.com/DMarby/picsum-browser/internal/remote"
	"github.com/DMarby/picsum-browser/internal/terminal"
	"github.com/DMarby/picsum-browser/internal/tracing"
	"github.com/DMarby/picsum-browser/internal/ui"
	"go.uber.org/zap"
)

const listURL = "https://picsum.photos/v2/list"

func TestReadCommands(t *testing.T) {
	log := logger.New(zap.FatalLevel)
	defer log.Sync()

	fetcher := &mock.Fetcher{
		Responses: map[string][]byte{
			listURL: []byte(`[{"id":"1","author":"Alice","width":1,"height":1,"url":"https://x/1","download_url":"https://x/1/download"}]`),
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := ui.New()
	var out bytes.Buffer
	browser := &terminal.Browser{
		Loader:  &remote.Loader{Fetcher: fetcher, Dispatcher: loop, Log: log, Tracer: tracing.Noop(log, "test")},
		ListURL: listURL,
		Out:     &out,
		Log:     log,
		Columns: 10,
		Rows:    5,
	}

	loop.Dispatch(func() {
		browser.Start(ctx)
	})

	done := make(chan error, 1)
	go func() {
		done <- loop.Run(ctx)
	}()

	readCommands(ctx, strings.NewReader("nonsense\nq\n"), loop, browser, log, cancel)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("browser did not quit")
	}

	if !strings.Contains(out.String(), `Unknown command "nonsense"`) {
		t.Errorf("command was not handled: %q", out.String())
	}
}
