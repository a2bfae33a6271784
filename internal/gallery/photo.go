package gallery

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/DMarby/picsum-browser/internal/handler"
	"github.com/DMarby/picsum-browser/internal/photo"
	"github.com/DMarby/picsum-browser/internal/view"
	"github.com/gorilla/mux"
)

// getPhoto looks up the photo of the request in the loaded list.
// ok is false when a response has already been written.
func (a *API) getPhoto(w http.ResponseWriter, r *http.Request) (p photo.Photo, ok bool, handlerErr *handler.Error) {
	photos, loaded, handlerErr := a.loadedPhotos(w, r)
	if !loaded {
		return photo.Photo{}, false, handlerErr
	}

	p, found := photo.Find(photos, mux.Vars(r)["id"])
	if !found {
		return photo.Photo{}, false, handler.NotFound("photo not found")
	}

	return p, true, nil
}

func (a *API) detailHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	p, ok, handlerErr := a.getPhoto(w, r)
	if !ok {
		return handlerErr
	}

	detail := a.detail(p)
	detail.Appear(r.Context())
	a.await(r.Context(), detail)

	phase := detail.Phase()
	width, height := detail.Fit(a.MaxWidth, a.MaxHeight)
	imageURL := fmt.Sprintf("/photo/%s/image?width=%d&height=%d", p.ID, width, height)

	if handler.WantsJSON(r) {
		data := DetailView{
			State: phase.String(),
			Error: loadError(phase),
			Photo: p,
		}

		if phase == view.Loaded {
			data.Image = &ImageInfo{URL: imageURL, Width: width, Height: height}
		}

		return a.renderJSON(w, r, statusFor(phase), data)
	}

	data := page{
		Title:    detail.Title(),
		Phase:    phase.String(),
		Back:     "/",
		Photo:    p,
		ImageURL: imageURL,
		Width:    width,
		Height:   height,
	}

	if phase == view.Failed {
		data.Failure = &failure{
			Message:  "Could not load photo",
			RetryURL: fmt.Sprintf("/photo/%s/retry", p.ID),
		}
	}

	return a.renderHTML(w, r, "detail.html", statusFor(phase), data)
}

func (a *API) detailRetryHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	p, ok, handlerErr := a.getPhoto(w, r)
	if !ok {
		return handlerErr
	}

	a.detail(p).Retry(r.Context())
	http.Redirect(w, r, fmt.Sprintf("/photo/%s", p.ID), http.StatusSeeOther)
	return nil
}

func (a *API) imageHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	width, height, err := getSize(r)
	if err != nil {
		return handler.BadRequest(err.Error())
	}

	a.list.Appear(r.Context())
	a.await(r.Context(), a.list)

	photos, ok := a.list.Photos()
	if !ok {
		return unavailable(w, a.list.Phase())
	}

	p, found := photo.Find(photos, mux.Vars(r)["id"])
	if !found {
		return handler.NotFound("photo not found")
	}

	detail := a.detail(p)
	detail.Appear(r.Context())
	a.await(r.Context(), detail)

	img, ok := detail.Image()
	if !ok {
		return unavailable(w, detail.Phase())
	}

	// Identical concurrent requests share one scale and encode
	key := fmt.Sprintf("%s-%dx%d", p.ID, width, height)
	v, err, _ := a.scaled.Do(key, func() (interface{}, error) {
		return photo.EncodePNG(photo.Scale(img, width, height))
	})
	if err != nil {
		a.logError(r, "error encoding image", err)
		return handler.InternalServerError()
	}
	data := v.([]byte)

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=\"%s.png\"", key))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := w.Write(data); err != nil {
		a.logError(r, "error writing image", err)
	}

	return nil
}

// unavailable responds for a resource that is not loaded
func unavailable(w http.ResponseWriter, phase view.Phase) *handler.Error {
	if phase == view.Failed {
		return &handler.Error{Message: "failed to load image", Code: http.StatusBadGateway}
	}

	w.Header().Set("Retry-After", strconv.Itoa(refreshInterval))
	return &handler.Error{Message: "image is loading", Code: http.StatusServiceUnavailable}
}

// getSize reads the optional width and height query parameters, zero leaves a dimension unconstrained
func getSize(r *http.Request) (width, height int, err error) {
	width, err = getDimension(r, "width")
	if err != nil {
		return 0, 0, err
	}

	height, err = getDimension(r, "height")
	if err != nil {
		return 0, 0, err
	}

	return width, height, nil
}

func getDimension(r *http.Request, name string) (int, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}

	if n > maxImageSize {
		return 0, fmt.Errorf("invalid %s, must be at most %d", name, maxImageSize)
	}

	return n, nil
}
