package gallery

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/DMarby/picsum-browser/internal/handler"
	"github.com/DMarby/picsum-browser/internal/photo"
	"github.com/DMarby/picsum-browser/internal/remote"
	"github.com/DMarby/picsum-browser/internal/view"
	"github.com/DMarby/picsum-browser/internal/web"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var templates = template.Must(template.ParseFS(web.Static, "embed/templates/*.html"))

// Seconds before a loading page reloads itself
const refreshInterval = 1

type page struct {
	Title    string
	Phase    string
	Refresh  int
	Back     string
	Failure  *failure
	Rows     []row
	Photo    photo.Photo
	ImageURL string
	Width    int
	Height   int
}

type failure struct {
	Message  string
	RetryURL string
}

type row struct {
	ID     string
	Author string
}

// ListView is the JSON representation of the list view
type ListView struct {
	State  string        `json:"state"`
	Error  string        `json:"error,omitempty"`
	Photos []photo.Photo `json:"photos"`
}

// DetailView is the JSON representation of the detail view
type DetailView struct {
	State string      `json:"state"`
	Error string      `json:"error,omitempty"`
	Photo photo.Photo `json:"photo"`
	Image *ImageInfo  `json:"image,omitempty"`
}

// ImageInfo is where the scaled image of a detail view is served, and its size
type ImageInfo struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// statusFor maps a view phase to the response status
func statusFor(phase view.Phase) int {
	if phase == view.Failed {
		return http.StatusBadGateway
	}

	return http.StatusOK
}

func (a *API) renderHTML(w http.ResponseWriter, r *http.Request, name string, status int, data page) *handler.Error {
	if data.Phase == view.Loading.String() {
		data.Refresh = refreshInterval
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		a.logError(r, "error rendering template", err)
		return handler.InternalServerError()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		a.logError(r, "error writing response", err)
	}

	return nil
}

func (a *API) renderJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) *handler.Error {
	body, err := json.Marshal(data)
	if err != nil {
		a.logError(r, "error encoding json", err)
		return handler.InternalServerError()
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		a.logError(r, "error writing response", err)
	}

	return nil
}

// loadError is the message published for a failed view, details stay in the logs
func loadError(phase view.Phase) string {
	if phase != view.Failed {
		return ""
	}

	return remote.ErrLoad.Error()
}
