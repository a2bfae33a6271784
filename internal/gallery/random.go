package gallery

import (
	"fmt"
	"math/rand"
	"net/http"

	"github.com/DMarby/picsum-browser/internal/handler"
	"github.com/DMarby/picsum-browser/internal/photo"
	"github.com/gorilla/mux"
	"github.com/twmb/murmur3"
)

func (a *API) randomHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	photos, ok, handlerErr := a.loadedPhotos(w, r)
	if !ok {
		return handlerErr
	}

	if len(photos) == 0 {
		return handler.NotFound("no photos")
	}

	return redirectToPhoto(w, r, photos[rand.Intn(len(photos))])
}

func (a *API) seedHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	photos, ok, handlerErr := a.loadedPhotos(w, r)
	if !ok {
		return handlerErr
	}

	if len(photos) == 0 {
		return handler.NotFound("no photos")
	}

	// Hash the seed using murmur3, the same seed always picks the same photo of a list
	murmurHash := murmur3.StringSum64(mux.Vars(r)["seed"])

	return redirectToPhoto(w, r, photos[murmurHash%uint64(len(photos))])
}

func redirectToPhoto(w http.ResponseWriter, r *http.Request, p photo.Photo) *handler.Error {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	http.Redirect(w, r, fmt.Sprintf("/photo/%s", p.ID), http.StatusFound)
	return nil
}
