package terminal

import (
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/DMarby/picsum-browser/internal/photo"
	"github.com/DMarby/picsum-browser/internal/view"
)

const (
	upperHalfBlock = "▀"
	resetColor     = "\x1b[0m"
	clearScreen    = "\x1b[H\x1b[2J"
)

// RenderList writes the list view
func RenderList(w io.Writer, v *view.List) {
	fmt.Fprintf(w, "%s\n\n", v.Title())

	switch v.Phase() {
	case view.Loading:
		fmt.Fprintln(w, "Loading…")
		fmt.Fprintln(w, "\n[q] quit")
	case view.Failed:
		fmt.Fprintf(w, "Could not load photos: %s\n", v.Err())
		fmt.Fprintln(w, "\n[r] retry  [q] quit")
	case view.Loaded:
		rows := v.Rows()
		for i, row := range rows {
			fmt.Fprintf(w, "%3d  %s\n", i+1, row.Label)
		}

		if len(rows) == 0 {
			fmt.Fprintln(w, "No photos")
		}

		fmt.Fprintln(w, "\n[number] open  [q] quit")
	}
}

// RenderDetail writes the detail view, with the image scaled to fit in columns x rows terminal cells
func RenderDetail(w io.Writer, v *view.Detail, columns, rows int) {
	fmt.Fprintf(w, "%s\n\n", v.Title())

	switch v.Phase() {
	case view.Loading:
		fmt.Fprintln(w, "Loading…")
		fmt.Fprintln(w, "\n[b] back  [q] quit")
	case view.Failed:
		fmt.Fprintf(w, "Could not load %s: %s\n", v.URL(), v.Err())
		fmt.Fprintln(w, "\n[r] retry  [b] back  [q] quit")
	case view.Loaded:
		img, _ := v.Image()
		// Every cell shows two pixels stacked vertically
		io.WriteString(w, HalfBlocks(photo.Scale(img, columns, rows*2)))
		fmt.Fprintln(w, "\n[b] back  [q] quit")
	}
}

// HalfBlocks renders img with one upper half block per two pixels, using 24-bit ANSI colors
func HalfBlocks(img image.Image) string {
	bounds := img.Bounds()

	var b strings.Builder
	for y := bounds.Min.Y; y < bounds.Max.Y; y += 2 {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			tr, tg, tb := rgb(img, x, y)
			if y+1 < bounds.Max.Y {
				br, bg, bb := rgb(img, x, y+1)
				fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm%s", tr, tg, tb, br, bg, bb, upperHalfBlock)
			} else {
				fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm%s", tr, tg, tb, upperHalfBlock)
			}
		}

		b.WriteString(resetColor)
		b.WriteByte('\n')
	}

	return b.String()
}

func rgb(img image.Image, x, y int) (uint8, uint8, uint8) {
	r, g, b, _ := img.At(x, y).RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}
