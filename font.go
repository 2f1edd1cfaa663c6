package cadmus

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Fonts holds the faces shared by every view through the Context. The zero
// value is unusable; construct with NewFonts or LoadFonts.
type Fonts struct {
	Normal font.Face
	Bold   font.Face
}

// NewFonts returns a font set backed by the built-in bitmap face. Used by
// tests and as the fallback when no font files are present.
func NewFonts() *Fonts {
	return &Fonts{Normal: basicfont.Face7x13, Bold: basicfont.Face7x13}
}

// LoadFonts reads OpenType files for the normal and bold styles and sizes
// them for the given DPI. Either path may be empty, leaving the built-in
// face for that style.
func LoadFonts(normalPath, boldPath string, dpi int) (*Fonts, error) {
	fonts := NewFonts()
	if normalPath != "" {
		face, err := loadFace(normalPath, dpi)
		if err != nil {
			return nil, err
		}
		fonts.Normal = face
	}
	if boldPath != "" {
		face, err := loadFace(boldPath, dpi)
		if err != nil {
			return nil, err
		}
		fonts.Bold = face
	}
	return fonts, nil
}

func loadFace(path string, dpi int) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load font %s: %w", path, err)
	}
	ft, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size:    11,
		DPI:     float64(dpi),
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("size font %s: %w", path, err)
	}
	return face, nil
}

// Em returns the advance of the em quad for a face, the padding unit used
// throughout layout.
func Em(face font.Face) int {
	adv, ok := face.GlyphAdvance('M')
	if !ok {
		return face.Metrics().Height.Ceil()
	}
	return adv.Ceil()
}

// LineHeight returns the recommended baseline-to-baseline distance.
func LineHeight(face font.Face) int {
	return face.Metrics().Height.Ceil()
}

// TextWidth returns the advance of s in pixels.
func TextWidth(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

// DrawText renders s with its baseline origin at pt, clipped to clip.
func DrawText(fb Framebuffer, face font.Face, pt Pt, c color.Color, clip Rect, s string) {
	clipped := clip.Intersect(FromImage(fb.Bounds()))
	if clipped.IsEmpty() {
		return
	}
	d := font.Drawer{
		Dst:  Clipped(fb, clipped),
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(pt.X, pt.Y),
	}
	d.DrawString(s)
}

// TruncateToWidth shortens s with a trailing ellipsis so it fits within
// maxWidth pixels. Returns s unchanged when it already fits.
func TruncateToWidth(face font.Face, s string, maxWidth int) string {
	if TextWidth(face, s) <= maxWidth {
		return s
	}
	const ellipsis = "…"
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + ellipsis
		if TextWidth(face, candidate) <= maxWidth {
			return candidate
		}
	}
	return ellipsis
}
