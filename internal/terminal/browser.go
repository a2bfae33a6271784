package terminal

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/DMarby/picsum-browser/internal/logger"
	"github.com/DMarby/picsum-browser/internal/remote"
	"github.com/DMarby/picsum-browser/internal/view"
)

// Browser navigates between the list view and a detail view.
// All methods must be called on the UI loop of the Loader.
type Browser struct {
	Loader  *remote.Loader
	ListURL string
	Out     io.Writer
	Log     *logger.Logger
	Columns int
	Rows    int
	// Clear clears the screen before every render
	Clear bool

	list        *view.List
	detail      *view.Detail
	unsubscribe func()
	message     string
}

// Start shows the list view
func (b *Browser) Start(ctx context.Context) {
	b.list = view.NewList(b.Loader, b.ListURL)
	b.show(ctx, b.list)
	b.Render()
}

type screen interface {
	Appear(ctx context.Context)
	Observe(fn func()) func()
}

func (b *Browser) show(ctx context.Context, s screen) {
	if b.unsubscribe != nil {
		b.unsubscribe()
	}

	b.unsubscribe = s.Observe(b.Render)
	s.Appear(ctx)
}

// Handle executes a command, it returns false once the browser should quit
func (b *Browser) Handle(ctx context.Context, command string) bool {
	command = strings.ToLower(strings.TrimSpace(command))
	b.message = ""

	switch command {
	case "":
	case "q", "quit", "exit":
		if b.unsubscribe != nil {
			b.unsubscribe()
			b.unsubscribe = nil
		}
		return false
	case "b", "back":
		if b.detail == nil {
			b.message = "Already at the list"
			break
		}

		// The detail view and its loader are discarded
		b.detail = nil
		b.show(ctx, b.list)
	case "r", "retry":
		b.retry(ctx)
	default:
		b.open(ctx, command)
	}

	b.Render()
	return true
}

func (b *Browser) retry(ctx context.Context) {
	switch {
	case b.detail != nil && b.detail.Phase() == view.Failed:
		b.Log.Debugw("retrying photo", "url", b.detail.URL())
		b.detail.Retry(ctx)
	case b.detail == nil && b.list.Phase() == view.Failed:
		b.Log.Debugw("retrying photo list", "url", b.ListURL)
		b.list.Retry(ctx)
	default:
		b.message = "Nothing to retry"
	}
}

func (b *Browser) open(ctx context.Context, command string) {
	if b.detail != nil {
		b.message = fmt.Sprintf("Unknown command %q", command)
		return
	}

	n, err := strconv.Atoi(command)
	if err != nil {
		b.message = fmt.Sprintf("Unknown command %q", command)
		return
	}

	rows := b.list.Rows()
	if n < 1 || n > len(rows) {
		b.message = fmt.Sprintf("No photo %d", n)
		return
	}

	row := rows[n-1]
	b.Log.Debugw("opening photo", "id", row.Photo.ID, "author", row.Label, "url", row.Photo.DownloadURL)

	b.detail = view.NewDetail(b.Loader, row.Photo.DownloadURL)
	b.show(ctx, b.detail)
}

// Render writes the current view
func (b *Browser) Render() {
	if b.Clear {
		io.WriteString(b.Out, clearScreen)
	}

	if b.detail != nil {
		RenderDetail(b.Out, b.detail, b.Columns, b.Rows)
	} else {
		RenderList(b.Out, b.list)
	}

	if b.message != "" {
		fmt.Fprintln(b.Out, b.message)
	}
}

// Viewing returns the view currently shown, either a *view.List or a *view.Detail
func (b *Browser) Viewing() interface{} {
	if b.detail != nil {
		return b.detail
	}

	return b.list
}
