package view_test

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/DMarby/picsum-browser/internal/fetch/mock"
	"github.com/DMarby/picsum-browser/internal/logger"
	"github.com/DMarby/picsum-browser/internal/photo"
	"github.com/DMarby/picsum-browser/internal/remote"
	"github.com/DMarby/picsum-browser/internal/tracing"
	"github.com/DMarby/picsum-browser/internal/ui"
	"github.com/DMarby/picsum-browser/internal/view"
	"go.uber.org/zap"
)

const (
	aliceURL     = "https://picsum.photos/v2/alice"
	emptyURL     = "https://picsum.photos/v2/empty"
	malformedURL = "https://picsum.photos/v2/malformed"
	downloadURL  = "https://x/1/download"
)

func pngData(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{B: 255, A: 255})
		}
	}

	data, err := photo.EncodePNG(img)
	if err != nil {
		t.Fatal(err)
	}

	return data
}

func setup(t *testing.T) (*remote.Loader, *mock.Fetcher) {
	log := logger.New(zap.FatalLevel)
	t.Cleanup(func() { log.Sync() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	loop := ui.New()
	go loop.Run(ctx)

	fetcher := &mock.Fetcher{
		Responses: map[string][]byte{
			aliceURL:     []byte(`[{"id":"1","author":"Alice","width":100,"height":100,"url":"https://x/1","download_url":"https://x/1/download"}]`),
			emptyURL:     []byte(`[]`),
			malformedURL: []byte(`[{"id":"1",`),
			downloadURL:  pngData(t, 300, 150),
		},
	}

	return &remote.Loader{
		Fetcher:    fetcher,
		Dispatcher: loop,
		Log:        log,
		Tracer:     tracing.Noop(log, "test"),
	}, fetcher
}

type observable interface {
	Phase() view.Phase
	Observe(fn func()) func()
}

func waitFor(t *testing.T, v observable, phase view.Phase) {
	t.Helper()

	changed := make(chan struct{}, 1)
	unsubscribe := v.Observe(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	deadline := time.After(5 * time.Second)
	for v.Phase() != phase {
		select {
		case <-changed:
		case <-deadline:
			t.Fatalf("timed out waiting for %s, view is %s", phase, v.Phase())
		}
	}
}

func TestList(t *testing.T) {
	ctx := context.Background()

	t.Run("renders one row per author", func(t *testing.T) {
		loader, _ := setup(t)
		list := view.NewList(loader, aliceURL)

		if list.Phase() != view.Loading {
			t.Errorf("wrong initial phase %s", list.Phase())
		}

		list.Appear(ctx)
		waitFor(t, list, view.Loaded)

		rows := list.Rows()
		if len(rows) != 1 || rows[0].Label != "Alice" || rows[0].Photo.DownloadURL != downloadURL {
			t.Errorf("wrong rows %+v", rows)
		}

		if list.Title() != "Authors" {
			t.Errorf("wrong title %q", list.Title())
		}
	})

	t.Run("renders zero rows for an empty list", func(t *testing.T) {
		loader, _ := setup(t)
		list := view.NewList(loader, emptyURL)
		list.Appear(ctx)
		waitFor(t, list, view.Loaded)

		if rows := list.Rows(); len(rows) != 0 {
			t.Errorf("wrong rows %+v", rows)
		}
	})

	t.Run("fails on malformed json", func(t *testing.T) {
		loader, _ := setup(t)
		list := view.NewList(loader, malformedURL)
		list.Appear(ctx)
		waitFor(t, list, view.Failed)

		if _, ok := list.Photos(); ok {
			t.Error("photos present on failure")
		}

		if rows := list.Rows(); rows != nil {
			t.Errorf("rows present on failure %+v", rows)
		}

		if !errors.Is(list.Err(), remote.ErrLoad) {
			t.Errorf("wrong error %v", list.Err())
		}
	})

	t.Run("reappearing does not fetch again", func(t *testing.T) {
		loader, fetcher := setup(t)
		list := view.NewList(loader, aliceURL)
		list.Appear(ctx)
		waitFor(t, list, view.Loaded)
		list.Appear(ctx)
		list.Appear(ctx)

		if calls := fetcher.Calls(aliceURL); calls != 1 {
			t.Errorf("wrong number of fetches %d", calls)
		}
	})

	t.Run("retry fetches again", func(t *testing.T) {
		loader, fetcher := setup(t)
		list := view.NewList(loader, malformedURL)
		list.Appear(ctx)
		waitFor(t, list, view.Failed)

		list.Retry(ctx)
		waitFor(t, list, view.Failed)

		if calls := fetcher.Calls(malformedURL); calls != 2 {
			t.Errorf("wrong number of fetches %d", calls)
		}
	})
}

func TestDetail(t *testing.T) {
	ctx := context.Background()

	t.Run("renders the image preserving aspect ratio", func(t *testing.T) {
		loader, _ := setup(t)
		detail := view.NewDetail(loader, downloadURL)

		if w, h := detail.Fit(100, 100); w != 0 || h != 0 {
			t.Errorf("fit before load %dx%d", w, h)
		}

		detail.Appear(ctx)
		waitFor(t, detail, view.Loaded)

		img, ok := detail.Image()
		if !ok || img.Bounds().Dx() != 300 || img.Bounds().Dy() != 150 {
			t.Fatal("wrong image")
		}

		if w, h := detail.Fit(100, 100); w != 100 || h != 50 {
			t.Errorf("wrong fit %dx%d", w, h)
		}

		if detail.Title() != "Photo" || detail.URL() != downloadURL {
			t.Errorf("wrong title or url %q %q", detail.Title(), detail.URL())
		}
	})

	t.Run("fails on invalid image data", func(t *testing.T) {
		loader, _ := setup(t)
		detail := view.NewDetail(loader, aliceURL)
		detail.Appear(ctx)
		waitFor(t, detail, view.Failed)

		if _, ok := detail.Image(); ok {
			t.Error("image present on failure")
		}

		if detail.Err() == nil {
			t.Error("missing error")
		}
	})

	t.Run("every detail view owns its loader", func(t *testing.T) {
		loader, fetcher := setup(t)

		for i := 0; i < 2; i++ {
			detail := view.NewDetail(loader, downloadURL)
			detail.Appear(ctx)
			detail.Appear(ctx)
			waitFor(t, detail, view.Loaded)
		}

		if calls := fetcher.Calls(downloadURL); calls != 2 {
			t.Errorf("wrong number of fetches %d", calls)
		}
	})
}

func TestPhaseString(t *testing.T) {
	phases := map[view.Phase]string{
		view.Loading:   "loading",
		view.Loaded:    "loaded",
		view.Failed:    "failed",
		view.Phase(42): "unknown",
	}

	for phase, expected := range phases {
		if phase.String() != expected {
			t.Errorf("wrong string %q", phase.String())
		}
	}
}
