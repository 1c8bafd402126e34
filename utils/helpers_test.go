package utils

import (
	"context"
	"image"
	"image/color"
	"testing"

	cs "github.com/setanarut/crossstitch"
)

func testPalette() cs.Palette {
	return cs.Palette{
		{RGB: cs.RGB{R: 255, G: 255, B: 255}, Symbol: 'A', ID: "B5200", Name: "Snow White"},
		{RGB: cs.RGB{R: 199, G: 43, B: 59}, Symbol: 'B', ID: "321", Name: "Red"},
		{RGB: cs.RGB{}, Symbol: 'C', ID: "310", Name: "Black"},
	}
}

func fillRect(img *image.NRGBA, rect image.Rectangle, fill color.NRGBA) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			img.SetNRGBA(x, y, fill)
		}
	}
}

// testResult converts a 3x2 image: a red left column, white elsewhere.
func testResult(t *testing.T) *cs.Result {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	fillRect(img, img.Bounds(), color.NRGBA{R: 250, G: 250, B: 250, A: 255})
	fillRect(img, image.Rect(0, 0, 1, 2), color.NRGBA{R: 200, G: 40, B: 60, A: 255})

	res, err := cs.ConvertImage(context.Background(), img, cs.ByWidth(3), testPalette(), cs.DefaultOptions())
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	return res
}
