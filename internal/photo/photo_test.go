package photo_test

import (
	"errors"
	"image"
	"image/color"
	"reflect"
	"testing"

	"github.com/DMarby/picsum-browser/internal/photo"
)

var alice = photo.Photo{
	ID:          "1",
	Author:      "Alice",
	Width:       100,
	Height:      100,
	URL:         "https://x/1",
	DownloadURL: "https://x/1/download",
}

func TestDecodeList(t *testing.T) {
	tests := []struct {
		Name     string
		Data     string
		Expected []photo.Photo
	}{
		{
			Name:     "single photo",
			Data:     `[{"id":"1","author":"Alice","width":100,"height":100,"url":"https://x/1","download_url":"https://x/1/download"}]`,
			Expected: []photo.Photo{alice},
		},
		{
			Name:     "unknown fields are ignored",
			Data:     `[{"id":"1","author":"Alice","width":100,"height":100,"url":"https://x/1","download_url":"https://x/1/download","likes":3}]`,
			Expected: []photo.Photo{alice},
		},
		{
			Name:     "empty list",
			Data:     `[]`,
			Expected: []photo.Photo{},
		},
	}

	for _, test := range tests {
		photos, err := photo.DecodeList([]byte(test.Data))
		if err != nil {
			t.Errorf("%s: %s", test.Name, err)
			continue
		}

		if !reflect.DeepEqual(photos, test.Expected) {
			t.Errorf("%s: wrong photos %+v", test.Name, photos)
		}
	}
}

func TestDecodeListErrors(t *testing.T) {
	tests := []struct {
		Name string
		Data string
	}{
		{"malformed json", `[{"id":`},
		{"not an array", `{"id":"1"}`},
		{"null", `null`},
		{"empty payload", ``},
		{"missing author", `[{"id":"1","width":100,"height":100,"url":"https://x/1","download_url":"https://x/1/download"}]`},
		{"missing download url", `[{"id":"1","author":"Alice","width":100,"height":100,"url":"https://x/1"}]`},
		{"wrong type", `[{"id":1,"author":"Alice","width":100,"height":100,"url":"https://x/1","download_url":"https://x/1/download"}]`},
		{"relative download url", `[{"id":"1","author":"Alice","width":100,"height":100,"url":"https://x/1","download_url":"/1/download"}]`},
		{
			"one bad entry fails the whole list",
			`[{"id":"1","author":"Alice","width":100,"height":100,"url":"https://x/1","download_url":"https://x/1/download"},{"id":"2"}]`,
		},
	}

	for _, test := range tests {
		photos, err := photo.DecodeList([]byte(test.Data))
		if err == nil {
			t.Errorf("%s: expected an error, got %+v", test.Name, photos)
			continue
		}

		if !errors.Is(err, photo.ErrInvalidList) {
			t.Errorf("%s: wrong error %s", test.Name, err)
		}

		if photos != nil {
			t.Errorf("%s: partial result %+v", test.Name, photos)
		}
	}
}

func TestFind(t *testing.T) {
	photos := []photo.Photo{alice}

	if p, ok := photo.Find(photos, "1"); !ok || p != alice {
		t.Errorf("wrong photo %+v", p)
	}

	if _, ok := photo.Find(photos, "2"); ok {
		t.Error("found nonexistant photo")
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		Name                          string
		Width, Height, MaxW, MaxH     int
		ExpectedWidth, ExpectedHeight int
	}{
		{"landscape into square", 400, 200, 100, 100, 100, 50},
		{"portrait into square", 200, 400, 100, 100, 50, 100},
		{"upscale", 10, 20, 100, 100, 50, 100},
		{"width only", 400, 300, 200, 0, 200, 150},
		{"height only", 400, 300, 0, 150, 200, 150},
		{"unconstrained", 400, 300, 0, 0, 400, 300},
		{"degenerate source", 0, 300, 100, 100, 0, 0},
		{"tiny box", 1000, 10, 10, 10, 10, 1},
	}

	for _, test := range tests {
		w, h := photo.Fit(test.Width, test.Height, test.MaxW, test.MaxH)
		if w != test.ExpectedWidth || h != test.ExpectedHeight {
			t.Errorf("%s: got %dx%d", test.Name, w, h)
		}
	}
}

func TestImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := 0; x < 40; x++ {
		for y := 0; y < 20; y++ {
			src.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}

	data, err := photo.EncodePNG(src)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("decodes png", func(t *testing.T) {
		img, err := photo.DecodeImage(data)
		if err != nil {
			t.Fatal(err)
		}

		if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 20 {
			t.Errorf("wrong bounds %v", img.Bounds())
		}
	})

	t.Run("scales preserving aspect ratio", func(t *testing.T) {
		img, _ := photo.DecodeImage(data)
		scaled := photo.Scale(img, 10, 10)

		if scaled.Bounds().Dx() != 10 || scaled.Bounds().Dy() != 5 {
			t.Errorf("wrong bounds %v", scaled.Bounds())
		}

		r, _, _, _ := scaled.At(5, 2).RGBA()
		if r>>8 < 250 {
			t.Errorf("wrong color %d", r>>8)
		}
	})

	t.Run("rejects invalid data", func(t *testing.T) {
		for _, data := range [][]byte{nil, []byte("not an image")} {
			if _, err := photo.DecodeImage(data); !errors.Is(err, photo.ErrInvalidImage) {
				t.Errorf("wrong error %v", err)
			}
		}
	})
}
