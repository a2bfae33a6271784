package file_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/DMarby/picsum-browser/internal/fetch"
	"github.com/DMarby/picsum-browser/internal/fetch/file"
)

func TestFile(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "v2"), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(root, "v2", "list.json"), []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}

	provider, err := file.New(root)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("get a file", func(t *testing.T) {
		for _, uri := range []string{"file:///v2/list.json", "file://v2/list.json"} {
			data, err := provider.Fetch(ctx, uri)
			if err != nil {
				t.Fatalf("%s: %s", uri, err)
			}

			if string(data) != "[]" {
				t.Errorf("%s: wrong data %q", uri, data)
			}
		}
	})

	t.Run("returns error on a nonexistant file", func(t *testing.T) {
		_, err := provider.Fetch(ctx, "file:///nonexistant.json")
		if !errors.Is(err, fetch.ErrNotFound) {
			t.Errorf("wrong error %v", err)
		}
	})

	t.Run("does not escape the root", func(t *testing.T) {
		_, err := provider.Fetch(ctx, "file:///../../etc/passwd")
		if !errors.Is(err, fetch.ErrNotFound) {
			t.Errorf("wrong error %v", err)
		}
	})

	t.Run("rejects other schemes", func(t *testing.T) {
		_, err := provider.Fetch(ctx, "https://picsum.photos/v2/list")
		if !errors.Is(err, fetch.ErrUnsupportedScheme) {
			t.Errorf("wrong error %v", err)
		}
	})
}

func TestMissingRoot(t *testing.T) {
	_, err := file.New(filepath.Join(t.TempDir(), "nonexistant"))
	if err == nil {
		t.FailNow()
	}
}
