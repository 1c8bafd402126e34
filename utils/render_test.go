package utils

import (
	"image"
	"image/color"
	"testing"

	cs "github.com/setanarut/crossstitch"
)

func TestContrastColor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		c    cs.RGB
		want color.RGBA
	}{
		{name: "white cell", c: cs.RGB{R: 255, G: 255, B: 255}, want: black},
		{name: "black cell", c: cs.RGB{}, want: white},
		{name: "dark red", c: cs.RGB{R: 199, G: 43, B: 59}, want: white},
		{name: "yellow", c: cs.RGB{R: 255, G: 227}, want: black},
		{name: "dark gray", c: cs.RGB{R: 100, G: 100, B: 100}, want: white},
		{name: "light gray", c: cs.RGB{R: 160, G: 160, B: 160}, want: black},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContrastColor(tt.c); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func hasColor(img *image.RGBA, r image.Rectangle, c color.RGBA) bool {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if img.RGBAAt(x, y) == c {
				return true
			}
		}
	}
	return false
}

func TestRenderPattern(t *testing.T) {
	t.Parallel()

	res := testResult(t)
	img := RenderPattern(res.Pattern, 20)
	if img.Bounds() != image.Rect(0, 0, 60, 40) {
		t.Fatalf("expected 60x40 image, got %v", img.Bounds())
	}

	red := color.RGBA{R: 199, G: 43, B: 59, A: 255}
	if got := img.RGBAAt(1, 1); got != red {
		t.Errorf("Expected red fill, got %v", got)
	}
	if got := img.RGBAAt(41, 21); got != white {
		t.Errorf("Expected white fill, got %v", got)
	}
	for _, p := range []image.Point{{0, 0}, {19, 5}, {20, 5}, {5, 39}} {
		if got := img.RGBAAt(p.X, p.Y); got != black {
			t.Errorf("Expected outline at %v, got %v", p, got)
		}
	}

	// Symbols sit inside the outline: white ink on red, black ink on white.
	if !hasColor(img, image.Rect(2, 2, 18, 18), white) {
		t.Error("expected a white symbol in the red cell")
	}
	if !hasColor(img, image.Rect(42, 22, 58, 38), black) {
		t.Error("expected a black symbol in the white cell")
	}
}

func TestRenderPatternDefaultCellSize(t *testing.T) {
	t.Parallel()

	img := RenderPattern(testResult(t).Pattern, 0)
	if img.Bounds().Dx() != 3*DefaultCellSize {
		t.Errorf("Expected width %d, got %d", 3*DefaultCellSize, img.Bounds().Dx())
	}
}

func TestRenderLegend(t *testing.T) {
	t.Parallel()

	res := testResult(t)
	img := RenderLegend(res.Legend)
	if img.Bounds() != image.Rect(0, 0, 500, 60) {
		t.Fatalf("expected 500x60 image, got %v", img.Bounds())
	}
	// First row swatch is white, second is red.
	if got := img.RGBAAt(25, 15); got != white {
		t.Errorf("Expected white swatch, got %v", got)
	}
	if got := img.RGBAAt(25, 45); got != (color.RGBA{R: 199, G: 43, B: 59, A: 255}) {
		t.Errorf("Expected red swatch, got %v", got)
	}
	if !hasColor(img, image.Rect(50, 0, 500, 30), black) {
		t.Error("expected label text on the first row")
	}

	empty := RenderLegend(nil)
	if empty.Bounds() != image.Rect(0, 0, 500, 30) {
		t.Errorf("Expected a single blank row, got %v", empty.Bounds())
	}
}

func TestLegendLabel(t *testing.T) {
	t.Parallel()

	got := LegendLabel(cs.PaletteEntry{Symbol: 'B', ID: "321", Name: "Red"})
	if got != "B - 321 - Red" {
		t.Errorf("Expected %q, got %q", "B - 321 - Red", got)
	}
}
