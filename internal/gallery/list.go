package gallery

import (
	"net/http"

	"github.com/DMarby/picsum-browser/internal/handler"
	"github.com/DMarby/picsum-browser/internal/photo"
	"github.com/DMarby/picsum-browser/internal/view"
)

func (a *API) listHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	a.list.Appear(r.Context())
	a.await(r.Context(), a.list)

	return a.renderList(w, r)
}

func (a *API) renderList(w http.ResponseWriter, r *http.Request) *handler.Error {
	phase := a.list.Phase()
	photos, ok := a.list.Photos()
	if ok && photos == nil {
		photos = []photo.Photo{}
	}

	if handler.WantsJSON(r) {
		return a.renderJSON(w, r, statusFor(phase), ListView{
			State:  phase.String(),
			Error:  loadError(phase),
			Photos: photos,
		})
	}

	data := page{
		Title: a.list.Title(),
		Phase: phase.String(),
	}

	if phase == view.Failed {
		data.Failure = &failure{Message: "Could not load photos", RetryURL: "/retry"}
	}

	for _, row := range a.list.Rows() {
		data.Rows = append(data.Rows, rowFor(row))
	}

	return a.renderHTML(w, r, "list.html", statusFor(phase), data)
}

func rowFor(r view.Row) row {
	return row{ID: r.Photo.ID, Author: r.Label}
}

func (a *API) listRetryHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	a.list.Retry(r.Context())
	http.Redirect(w, r, "/", http.StatusSeeOther)
	return nil
}

// loadedPhotos returns the photos of the list, or renders the list view and returns false when it is not loaded
func (a *API) loadedPhotos(w http.ResponseWriter, r *http.Request) ([]photo.Photo, bool, *handler.Error) {
	a.list.Appear(r.Context())
	a.await(r.Context(), a.list)

	photos, ok := a.list.Photos()
	if !ok {
		return nil, false, a.renderList(w, r)
	}

	return photos, true, nil
}
