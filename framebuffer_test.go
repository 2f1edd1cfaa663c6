package cadmus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFillRectClipsToSurface(t *testing.T) {
	fb := NewImageFramebuffer(10, 10)
	FillRect(fb, Rect{X: 5, Y: 5, Width: 20, Height: 20}, Black)

	if fb.GrayAt(6, 6).Y != Black.Y {
		t.Error("inside fill not applied")
	}
	if fb.GrayAt(4, 4).Y != White.Y {
		t.Error("pixel outside fill was touched")
	}
}

func TestDrawRectOutlineLeavesInteriorUntouched(t *testing.T) {
	fb := NewImageFramebuffer(20, 20)
	DrawRectOutline(fb, Rect{X: 2, Y: 2, Width: 10, Height: 10}, BorderSpec{Thickness: 1, Color: Black})

	if fb.GrayAt(2, 2).Y != Black.Y {
		t.Error("border corner not drawn")
	}
	if fb.GrayAt(7, 7).Y != White.Y {
		t.Error("interior was filled")
	}
}

func TestClippedDiscardsOutsideWrites(t *testing.T) {
	fb := NewImageFramebuffer(20, 20)
	cfb := Clipped(fb, Rect{X: 5, Y: 5, Width: 5, Height: 5})

	cfb.Set(6, 6, Black)
	cfb.Set(0, 0, Black)

	if fb.GrayAt(6, 6).Y != Black.Y {
		t.Error("write inside clip lost")
	}
	if fb.GrayAt(0, 0).Y != White.Y {
		t.Error("write outside clip leaked")
	}
}

// --- ImageFramebuffer ---

func TestImageFramebufferFlushRecordsClipped(t *testing.T) {
	fb := NewImageFramebuffer(100, 100)
	if err := fb.Flush(Rect{X: 50, Y: 50, Width: 100, Height: 100}, RefreshPartial); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := fb.Flush(Rect{X: 200, Y: 200, Width: 10, Height: 10}, RefreshFull); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	flushes := fb.Flushes()
	if len(flushes) != 1 {
		t.Fatalf("flushes = %d, want 1 (off-screen flush dropped)", len(flushes))
	}
	want := FlushRecord{Rect: Rect{X: 50, Y: 50, Width: 50, Height: 50}, Mode: RefreshPartial}
	if flushes[0] != want {
		t.Errorf("flush = %v, want %v", flushes[0], want)
	}

	fb.ResetFlushes()
	if len(fb.Flushes()) != 0 {
		t.Error("ResetFlushes did not clear the record")
	}
}

func TestWritePNG(t *testing.T) {
	fb := NewImageFramebuffer(8, 8)
	dir := t.TempDir()
	path, err := fb.WritePNG(dir, "after tap!")
	if err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("path = %q, want inside %q", path, dir)
	}
	if !strings.Contains(filepath.Base(path), "after_tap_") {
		t.Errorf("label not sanitized: %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file not written: %v", err)
	}
}
