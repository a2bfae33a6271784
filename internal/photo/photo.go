package photo

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"

	jsoniter "github.com/json-iterator/go"
)

// DefaultListURL is the Lorem Picsum list endpoint
const DefaultListURL = "https://picsum.photos/v2/list"

// Photo contains metadata and download information about an image
type Photo struct {
	ID          string `json:"id"`
	Author      string `json:"author"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	URL         string `json:"url"`
	DownloadURL string `json:"download_url"`
}

// Errors
var (
	ErrInvalidList  = errors.New("invalid photo list")
	ErrInvalidImage = errors.New("invalid image data")
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// listEntry mirrors Photo with pointers so missing fields can be told apart from zero values
type listEntry struct {
	ID          *string `json:"id"`
	Author      *string `json:"author"`
	Width       *int    `json:"width"`
	Height      *int    `json:"height"`
	URL         *string `json:"url"`
	DownloadURL *string `json:"download_url"`
}

// DecodeList decodes a JSON array of photos.
// Unknown fields are ignored, a single missing or invalid entry fails the whole list.
func DecodeList(data []byte) ([]Photo, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidList)
	}

	var entries []listEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidList, err)
	}

	if entries == nil {
		return nil, fmt.Errorf("%w: not an array", ErrInvalidList)
	}

	photos := make([]Photo, 0, len(entries))
	for i, entry := range entries {
		p, err := entry.photo()
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %s", ErrInvalidList, i, err)
		}

		photos = append(photos, p)
	}

	return photos, nil
}

func (e listEntry) photo() (Photo, error) {
	switch {
	case e.ID == nil:
		return Photo{}, errors.New("missing id")
	case e.Author == nil:
		return Photo{}, errors.New("missing author")
	case e.Width == nil:
		return Photo{}, errors.New("missing width")
	case e.Height == nil:
		return Photo{}, errors.New("missing height")
	case e.URL == nil:
		return Photo{}, errors.New("missing url")
	case e.DownloadURL == nil:
		return Photo{}, errors.New("missing download_url")
	}

	if err := validateURI(*e.URL); err != nil {
		return Photo{}, fmt.Errorf("url: %w", err)
	}

	if err := validateURI(*e.DownloadURL); err != nil {
		return Photo{}, fmt.Errorf("download_url: %w", err)
	}

	return Photo{
		ID:          *e.ID,
		Author:      *e.Author,
		Width:       *e.Width,
		Height:      *e.Height,
		URL:         *e.URL,
		DownloadURL: *e.DownloadURL,
	}, nil
}

func validateURI(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return err
	}

	if !u.IsAbs() {
		return fmt.Errorf("%q is not an absolute uri", s)
	}

	return nil
}

// Find returns the photo with the given id
func Find(photos []Photo, id string) (Photo, bool) {
	for _, p := range photos {
		if p.ID == id {
			return p, true
		}
	}

	return Photo{}, false
}
