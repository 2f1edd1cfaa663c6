package cadmus

import "testing"

func TestScaleByDPI(t *testing.T) {
	tests := []struct {
		value float64
		dpi   int
		want  int
	}{
		{1.0, 167, 1},
		{2.0, 167, 2},
		{2.0, 334, 4},
		{1.0, 300, 2},
		{0.2, 167, 1}, // never below one pixel
		{0.0, 167, 0},
		{3.0, 0, 3}, // zero DPI falls back to the reference
	}
	for _, tt := range tests {
		if got := ScaleByDPI(tt.value, tt.dpi); got != tt.want {
			t.Errorf("ScaleByDPI(%v, %d) = %d, want %d", tt.value, tt.dpi, got, tt.want)
		}
	}
}
