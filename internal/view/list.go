package view

import (
	"context"

	"github.com/DMarby/picsum-browser/internal/photo"
	"github.com/DMarby/picsum-browser/internal/remote"
)

// Row is a single entry of the list view
type Row struct {
	Label string
	Photo photo.Photo
}

// List is the list of photo authors
type List struct {
	items *remote.Remote[[]photo.Photo]
}

// NewList creates a list view for the photos at listURL
func NewList(loader *remote.Loader, listURL string) *List {
	return &List{
		items: remote.New(loader, listURL, photo.DecodeList),
	}
}

// Title is the navigation title
func (v *List) Title() string {
	return "Authors"
}

// Appear is called whenever the view is shown, the photo list is only fetched the first time
func (v *List) Appear(ctx context.Context) {
	v.items.Load(ctx)
}

// Retry fetches the list again
func (v *List) Retry(ctx context.Context) {
	v.items.Reset()
	v.items.Load(ctx)
}

// Phase returns what the view shows
func (v *List) Phase() Phase {
	return phaseOf(v.items.State())
}

// Rows returns one row per photo, labelled with the author.
// It is empty unless the view is Loaded.
func (v *List) Rows() []Row {
	photos, ok := v.items.Value()
	if !ok {
		return nil
	}

	rows := make([]Row, 0, len(photos))
	for _, p := range photos {
		rows = append(rows, Row{Label: p.Author, Photo: p})
	}

	return rows
}

// Photos returns the loaded photos
func (v *List) Photos() ([]photo.Photo, bool) {
	return v.items.Value()
}

// Err returns the load error when the view is Failed
func (v *List) Err() error {
	return v.items.Result().Err
}

// Observe calls fn on the UI loop whenever the list changes
func (v *List) Observe(fn func()) (unsubscribe func()) {
	return observe(v.items, fn)
}
