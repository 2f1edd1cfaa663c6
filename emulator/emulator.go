// Package emulator presents the engine's in-memory framebuffer in a desktop
// window so the interface can be developed without e-ink hardware. Mouse
// and keyboard input translate to engine events; flushed regions flash a
// colored outline keyed by refresh mode.
package emulator

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/OGKevin/cadmus"
)

// holdThreshold separates a tap from a hold.
const holdThreshold = 600 * time.Millisecond

// swipeThreshold is the minimum drag distance in pixels for a swipe.
const swipeThreshold = 24

// flashDuration is how long a flush outline takes to fade out, in seconds.
const flashDuration = 0.45

var flashColors = map[cadmus.RefreshMode]color.RGBA{
	cadmus.RefreshFastMono: {0x40, 0xa0, 0xff, 0xff},
	cadmus.RefreshPartial:  {0x40, 0xff, 0x70, 0xff},
	cadmus.RefreshFull:     {0xff, 0x50, 0x50, 0xff},
}

type flash struct {
	rect  cadmus.Rect
	mode  cadmus.RefreshMode
	fade  *gween.Tween
	alpha float32
}

// Emulator is an ebiten.Game that drives the engine loop one frame at a
// time. It owns the cycle cadence, so the App's blocking Run loop is not
// used; everything stays on the ebiten update goroutine.
type Emulator struct {
	app *cadmus.App
	fb  *cadmus.ImageFramebuffer

	screen *ebiten.Image
	pixels []byte

	pressed    bool
	pressStart cadmus.Pt
	pressTime  time.Time

	flashes []flash
}

// New wraps an app and its capture framebuffer.
func New(app *cadmus.App, fb *cadmus.ImageFramebuffer) *Emulator {
	w, h := fb.Size()
	return &Emulator{
		app:    app,
		fb:     fb,
		screen: ebiten.NewImage(w, h),
		pixels: make([]byte, w*h*4),
	}
}

// Run opens the window and blocks until it is closed.
func Run(app *cadmus.App, fb *cadmus.ImageFramebuffer, title string) error {
	w, h := fb.Size()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(title)
	return ebiten.RunGame(New(app, fb))
}

// Update translates input into engine events and runs the queued cycles.
func (e *Emulator) Update() error {
	e.readMouse()
	e.readKeys()
	e.app.Pump(8)
	if err := e.app.Flush(); err != nil {
		return err
	}
	e.updateFlashes()
	e.collectFlashes()
	return nil
}

func (e *Emulator) readMouse() {
	x, y := ebiten.CursorPosition()
	down := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	switch {
	case down && !e.pressed:
		e.pressed = true
		e.pressStart = cadmus.Pt{X: x, Y: y}
		e.pressTime = time.Now()
	case !down && e.pressed:
		e.pressed = false
		end := cadmus.Pt{X: x, Y: y}
		dx, dy := end.X-e.pressStart.X, end.Y-e.pressStart.Y
		if dx*dx+dy*dy >= swipeThreshold*swipeThreshold {
			e.app.Hub().Send(cadmus.Swipe{
				Dir:   swipeDirection(dx, dy),
				Start: e.pressStart,
				End:   end,
			})
		} else if time.Since(e.pressTime) >= holdThreshold {
			e.app.Hub().Send(cadmus.Hold{Center: e.pressStart})
		} else {
			e.app.Hub().Send(cadmus.Tap{Center: e.pressStart})
		}
	}
}

func (e *Emulator) readKeys() {
	for _, r := range ebiten.AppendInputChars(nil) {
		e.app.Hub().Send(cadmus.KeyPress{Key: r})
	}
}

func swipeDirection(dx, dy int) cadmus.Direction {
	if abs(dx) >= abs(dy) {
		if dx < 0 {
			return cadmus.DirWest
		}
		return cadmus.DirEast
	}
	if dy < 0 {
		return cadmus.DirNorth
	}
	return cadmus.DirSouth
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// collectFlashes turns new flush records into fading outlines.
func (e *Emulator) collectFlashes() {
	for _, record := range e.fb.Flushes() {
		e.flashes = append(e.flashes, flash{
			rect:  record.Rect,
			mode:  record.Mode,
			fade:  gween.New(1, 0, flashDuration, ease.OutQuad),
			alpha: 1,
		})
	}
	e.fb.ResetFlushes()
}

// updateFlashes advances every outline's fade tween by one tick and drops
// the ones that finished.
func (e *Emulator) updateFlashes() {
	dt := float32(1) / float32(ebiten.TPS())
	kept := e.flashes[:0]
	for _, f := range e.flashes {
		alpha, finished := f.fade.Update(dt)
		if finished {
			continue
		}
		f.alpha = alpha
		kept = append(kept, f)
	}
	e.flashes = kept
}

// Draw copies the grayscale surface to the window and overlays the flush
// outlines.
func (e *Emulator) Draw(screen *ebiten.Image) {
	bounds := e.fb.Bounds()
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			v := e.fb.GrayAt(x, y).Y
			e.pixels[i] = v
			e.pixels[i+1] = v
			e.pixels[i+2] = v
			e.pixels[i+3] = 0xff
			i += 4
		}
	}
	e.screen.WritePixels(e.pixels)
	screen.DrawImage(e.screen, nil)

	for _, f := range e.flashes {
		drawOutline(screen, f.rect, fadeColor(flashColors[f.mode], f.alpha))
	}
}

// fadeColor scales a premultiplied color by the tweened alpha.
func fadeColor(c color.RGBA, alpha float32) color.RGBA {
	return color.RGBA{
		R: uint8(float32(c.R) * alpha),
		G: uint8(float32(c.G) * alpha),
		B: uint8(float32(c.B) * alpha),
		A: uint8(float32(c.A) * alpha),
	}
}

func drawOutline(screen *ebiten.Image, r cadmus.Rect, c color.RGBA) {
	if r.IsEmpty() {
		return
	}
	for x := r.X; x < r.X+r.Width; x++ {
		screen.Set(x, r.Y, c)
		screen.Set(x, r.Y+r.Height-1, c)
	}
	for y := r.Y; y < r.Y+r.Height; y++ {
		screen.Set(r.X, y, c)
		screen.Set(r.X+r.Width-1, y, c)
	}
}

// Layout reports the fixed panel size.
func (e *Emulator) Layout(int, int) (int, int) {
	return e.fb.Size()
}
