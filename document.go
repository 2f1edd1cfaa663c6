package cadmus

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

// Document is the boundary to a rendering backend: something that can
// rasterize one page at a time into a grayscale pixmap. Backends are opaque
// collaborators; the engine only ever asks for pages and surfaces failures
// as RenderFailed events.
type Document interface {
	// Path returns the source location, used as the library key.
	Path() string

	// PageCount returns the number of pages.
	PageCount() int

	// RenderPage rasterizes page (0-based) scaled to fit within width x
	// height, preserving aspect ratio.
	RenderPage(page, width, height int) (*image.Gray, error)
}

// ImageDocument treats a list of image files as a one-page-per-file
// document. It is the simplest backend and the one the emulator and tests
// use; PDF and DjVu backends satisfy the same interface out of tree.
type ImageDocument struct {
	path  string
	pages []string
}

// OpenImageDocument builds a document from image file paths. The files are
// decoded lazily, one per RenderPage call.
func OpenImageDocument(path string, pages []string) (*ImageDocument, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("document %s: no pages", path)
	}
	return &ImageDocument{path: path, pages: pages}, nil
}

// Path returns the document's library key.
func (d *ImageDocument) Path() string { return d.path }

// PageCount returns the number of page images.
func (d *ImageDocument) PageCount() int { return len(d.pages) }

// RenderPage decodes the page image and scales it to fit the requested box
// with nearest-neighbour sampling. E-ink panels dither anyway; the cheap
// filter keeps page turns fast on device.
func (d *ImageDocument) RenderPage(page, width, height int) (*image.Gray, error) {
	if page < 0 || page >= len(d.pages) {
		return nil, fmt.Errorf("document %s: page %d out of range [0, %d)", d.path, page, len(d.pages))
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("document %s: invalid page size %dx%d", d.path, width, height)
	}

	f, err := os.Open(d.pages[page])
	if err != nil {
		return nil, fmt.Errorf("document %s: open page %d: %w", d.path, page, err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("document %s: decode page %d: %w", d.path, page, err)
	}

	gray := toGray(src)
	return scaleToFit(gray, width, height), nil
}

// toGray converts any decoded image to grayscale.
func toGray(src image.Image) *image.Gray {
	if g, ok := src.(*image.Gray); ok {
		return g
	}
	b := src.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(g, g.Bounds(), src, b.Min, draw.Src)
	return g
}

// scaleToFit resizes src to fit within width x height, preserving aspect
// ratio, with nearest-neighbour sampling.
func scaleToFit(src *image.Gray, width, height int) *image.Gray {
	sb := src.Bounds()
	sw, sh := sb.Dx(), sb.Dy()
	if sw == 0 || sh == 0 {
		return image.NewGray(image.Rect(0, 0, width, height))
	}

	dw, dh := width, sh*width/sw
	if dh > height {
		dw, dh = sw*height/sh, height
	}
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewGray(image.Rect(0, 0, dw, dh))
	for y := 0; y < dh; y++ {
		sy := sb.Min.Y + y*sh/dh
		for x := 0; x < dw; x++ {
			sx := sb.Min.X + x*sw/dw
			dst.SetGray(x, y, src.GrayAt(sx, sy))
		}
	}
	return dst
}
