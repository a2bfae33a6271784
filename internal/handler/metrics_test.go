package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DMarby/picsum-browser/internal/handler"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func TestMetrics(t *testing.T) {
	router := mux.NewRouter()
	router.Handle("/photo/{id}", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	matcher := &handler.MuxRouteMatcher{Router: router}
	h := handler.Metrics(router, matcher)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/photo/1", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/nonexistant", nil))

	if route := matcher.Match(httptest.NewRequest("GET", "/photo/2", nil)); route != "/photo/{id}" {
		t.Errorf("wrong route %q", route)
	}

	w := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	body := w.Body.String()

	for _, expected := range []string{
		`picsum_browser_http_request_duration_seconds_count{code="418",path="/photo/{id}"} 1`,
		`picsum_browser_http_request_duration_seconds_count{code="404",path="unmatched"} 1`,
		`picsum_browser_http_requests_in_flight 0`,
	} {
		if !strings.Contains(body, expected) {
			t.Errorf("missing metric %s", expected)
		}
	}
}
