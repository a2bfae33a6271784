package view

import (
	"context"
	"image"

	"github.com/DMarby/picsum-browser/internal/photo"
	"github.com/DMarby/picsum-browser/internal/remote"
)

// Detail shows a single photo
type Detail struct {
	image *remote.Remote[image.Image]
}

// NewDetail creates a detail view for the image at downloadURL.
// Every detail view owns its own loader.
func NewDetail(loader *remote.Loader, downloadURL string) *Detail {
	return &Detail{
		image: remote.New(loader, downloadURL, photo.DecodeImage),
	}
}

// Title is the navigation title
func (v *Detail) Title() string {
	return "Photo"
}

// URL returns the download url of the photo
func (v *Detail) URL() string {
	return v.image.URI()
}

// Appear is called whenever the view is shown, the image is only fetched the first time
func (v *Detail) Appear(ctx context.Context) {
	v.image.Load(ctx)
}

// Retry fetches the image again
func (v *Detail) Retry(ctx context.Context) {
	v.image.Reset()
	v.image.Load(ctx)
}

// Phase returns what the view shows
func (v *Detail) Phase() Phase {
	return phaseOf(v.image.State())
}

// Image returns the decoded image
func (v *Detail) Image() (image.Image, bool) {
	return v.image.Value()
}

// Fit returns the size the image is shown at in a maxWidth x maxHeight box, preserving its aspect ratio
func (v *Detail) Fit(maxWidth, maxHeight int) (int, int) {
	img, ok := v.image.Value()
	if !ok {
		return 0, 0
	}

	return photo.Fit(img.Bounds().Dx(), img.Bounds().Dy(), maxWidth, maxHeight)
}

// Err returns the load error when the view is Failed
func (v *Detail) Err() error {
	return v.image.Result().Err
}

// Observe calls fn on the UI loop whenever the image changes
func (v *Detail) Observe(fn func()) (unsubscribe func()) {
	return observe(v.image, fn)
}
