package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DMarby/picsum-browser/internal/handler"
)

func TestCORS(t *testing.T) {
	h := handler.CORS([]string{"X-Request-Id"}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	tests := []struct {
		Name            string
		Method          string
		Headers         map[string]string
		ExpectedStatus  int
		ExpectedHeaders map[string]string
	}{
		{
			Name:           "sets the allowed origin",
			Method:         "GET",
			Headers:        map[string]string{"Origin": "https://example.com"},
			ExpectedStatus: http.StatusOK,
			ExpectedHeaders: map[string]string{
				"Access-Control-Allow-Origin":   "*",
				"Access-Control-Expose-Headers": "X-Request-Id",
			},
		},
		{
			Name:   "allows GET preflights",
			Method: "OPTIONS",
			Headers: map[string]string{
				"Origin":                        "https://example.com",
				"Access-Control-Request-Method": "GET",
			},
			ExpectedStatus: 0,
			ExpectedHeaders: map[string]string{
				"Access-Control-Allow-Origin":  "*",
				"Access-Control-Allow-Methods": "GET",
			},
		},
		{
			Name:   "rejects other preflights",
			Method: "OPTIONS",
			Headers: map[string]string{
				"Origin":                        "https://example.com",
				"Access-Control-Request-Method": "DELETE",
			},
			ExpectedStatus: 0,
			ExpectedHeaders: map[string]string{
				"Access-Control-Allow-Origin":  "",
				"Access-Control-Allow-Methods": "",
			},
		},
	}

	for _, test := range tests {
		req := httptest.NewRequest(test.Method, "/", nil)
		for key, value := range test.Headers {
			req.Header.Set(key, value)
		}

		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		// Preflights answer with any 2xx status
		if test.ExpectedStatus == 0 && (w.Code < 200 || w.Code > 299) {
			t.Errorf("%s: wrong status %d", test.Name, w.Code)
		} else if test.ExpectedStatus != 0 && w.Code != test.ExpectedStatus {
			t.Errorf("%s: wrong status %d", test.Name, w.Code)
		}

		for key, expected := range test.ExpectedHeaders {
			if value := w.Header().Get(key); value != expected {
				t.Errorf("%s: wrong %s header %q", test.Name, key, value)
			}
		}
	}
}
