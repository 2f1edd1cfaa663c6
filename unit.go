package cadmus

// Design units are specified at 167 DPI (the most common 6" e-ink panel)
// and scaled to the actual display.
const referenceDPI = 167

// Stroke thicknesses in design units.
const (
	ThicknessSmall  = 1.0
	ThicknessMedium = 2.0
	ThicknessLarge  = 3.0
)

// ScaleByDPI converts a design-unit value to device pixels, never returning
// less than one pixel for a positive input.
func ScaleByDPI(value float64, dpi int) int {
	if dpi <= 0 {
		dpi = referenceDPI
	}
	px := int(value*float64(dpi)/referenceDPI + 0.5)
	if px < 1 && value > 0 {
		return 1
	}
	return px
}
