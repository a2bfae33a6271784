package fetch_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DMarby/picsum-browser/internal/fetch"
	"github.com/DMarby/picsum-browser/internal/fetch/mock"
)

func TestMux(t *testing.T) {
	ctx := context.Background()

	web := &mock.Fetcher{Responses: map[string][]byte{"https://picsum.photos/v2/list": []byte("[]")}}
	files := fetch.Func(func(ctx context.Context, uri string) ([]byte, error) {
		return []byte("file"), nil
	})

	mux := fetch.NewMux()
	mux.Handle(web, "http", "https")
	mux.Handle(files, "file")

	tests := []struct {
		Name          string
		URI           string
		ExpectedData  string
		ExpectedError error
	}{
		{"routes https", "https://picsum.photos/v2/list", "[]", nil},
		{"routes file", "file:///list.json", "file", nil},
		{"rejects unknown schemes", "ftp://picsum.photos/list", "", fetch.ErrUnsupportedScheme},
		{"rejects relative uris", "/v2/list", "", fetch.ErrUnsupportedScheme},
	}

	for _, test := range tests {
		data, err := mux.Fetch(ctx, test.URI)
		if test.ExpectedError != nil {
			if !errors.Is(err, test.ExpectedError) {
				t.Errorf("%s: wrong error %v", test.Name, err)
			}
			continue
		}

		if err != nil {
			t.Errorf("%s: %s", test.Name, err)
			continue
		}

		if string(data) != test.ExpectedData {
			t.Errorf("%s: wrong data %q", test.Name, data)
		}
	}

	if calls := web.Calls("https://picsum.photos/v2/list"); calls != 1 {
		t.Errorf("wrong number of calls %d", calls)
	}
}
