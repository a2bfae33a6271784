package file

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/DMarby/picsum-browser/internal/fetch"
)

// Provider implements fetching file:// uris from beneath a root directory
type Provider struct {
	root string
}

// New returns a new Provider instance
func New(root string) (*Provider, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(root); err != nil {
		return nil, err
	}

	return &Provider{
		root,
	}, nil
}

// Fetch returns the contents of the file the uri points to
func (p *Provider) Fetch(ctx context.Context, uri string) ([]byte, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, err
	}

	if u.Scheme != "file" {
		return nil, fmt.Errorf("%w: %q", fetch.ErrUnsupportedScheme, u.Scheme)
	}

	// Resolve the path beneath the root, "file:///a.json" and "file://a.json" are equivalent
	name := filepath.Join(p.root, filepath.FromSlash(path.Clean("/"+u.Host+"/"+u.Path)))
	if name != p.root && !strings.HasPrefix(name, p.root+string(filepath.Separator)) {
		return nil, fetch.ErrNotFound
	}

	data, err := os.ReadFile(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fetch.ErrNotFound
		}

		return nil, err
	}

	return data, nil
}
