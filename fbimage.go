package cadmus

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"
	"time"
)

// FlushRecord is one recorded Flush call on an ImageFramebuffer.
type FlushRecord struct {
	Rect Rect
	Mode RefreshMode
}

// ImageFramebuffer is an in-memory grayscale surface. It backs the emulator
// frontend and the test suite: Flush calls are recorded instead of reaching
// hardware, and the pixel state can be exported as PNG.
type ImageFramebuffer struct {
	*image.Gray
	flushes []FlushRecord
}

// NewImageFramebuffer creates a white surface of the given size.
func NewImageFramebuffer(width, height int) *ImageFramebuffer {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = White.Y
	}
	return &ImageFramebuffer{Gray: img}
}

// Flush records the region and mode. The region is clipped to the surface.
func (fb *ImageFramebuffer) Flush(rect Rect, mode RefreshMode) error {
	clipped := rect.Intersect(FromImage(fb.Bounds()))
	if clipped.IsEmpty() {
		return nil
	}
	fb.flushes = append(fb.flushes, FlushRecord{Rect: clipped, Mode: mode})
	return nil
}

// Flushes returns the recorded flush calls in order.
func (fb *ImageFramebuffer) Flushes() []FlushRecord {
	return fb.flushes
}

// ResetFlushes clears the flush record.
func (fb *ImageFramebuffer) ResetFlushes() {
	fb.flushes = fb.flushes[:0]
}

// Size returns the surface dimensions.
func (fb *ImageFramebuffer) Size() (int, int) {
	b := fb.Bounds()
	return b.Dx(), b.Dy()
}

// WritePNG saves the current pixel state to dir with a timestamped,
// label-derived filename and returns the path written.
func (fb *ImageFramebuffer) WritePNG(dir, label string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("screenshot: mkdir %s: %w", dir, err)
	}
	stamp := time.Now().Format("20060102_150405")
	path := fmt.Sprintf("%s/%s_%s.png", dir, stamp, sanitizeLabel(label))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("screenshot: create %s: %w", path, err)
	}
	if err := png.Encode(f, fb.Gray); err != nil {
		f.Close()
		return "", fmt.Errorf("screenshot: encode %s: %w", path, err)
	}
	return path, f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
