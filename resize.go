package crossstitch

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Interpolation selects the resampling filter used to fit the source image
// to the pattern grid.
type Interpolation int

const (
	// InterpolationCatmullRom is bicubic resampling; best for photos.
	InterpolationCatmullRom Interpolation = iota
	// InterpolationBiLinear is cheaper and slightly softer.
	InterpolationBiLinear
	// InterpolationNearest keeps hard edges, useful for pixel art sources.
	InterpolationNearest
)

func (i Interpolation) String() string {
	switch i {
	case InterpolationBiLinear:
		return "bilinear"
	case InterpolationNearest:
		return "nearest"
	default:
		return "catmullrom"
	}
}

// ParseInterpolation maps a flag value to an Interpolation.
func ParseInterpolation(s string) (Interpolation, bool) {
	switch s {
	case "catmullrom", "bicubic", "":
		return InterpolationCatmullRom, true
	case "bilinear":
		return InterpolationBiLinear, true
	case "nearest":
		return InterpolationNearest, true
	}
	return InterpolationCatmullRom, false
}

func (i Interpolation) scaler() draw.Scaler {
	switch i {
	case InterpolationBiLinear:
		return draw.BiLinear
	case InterpolationNearest:
		return draw.NearestNeighbor
	default:
		return draw.CatmullRom
	}
}

// flatten composites img over an opaque background, so every pixel of the
// result has alpha 255.
func flatten(img image.Image, bg color.Color) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	fill := rgbFromColor(bg)
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.RGBA{R: fill.R, G: fill.G, B: fill.B, A: 255}), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

func resize(src *image.RGBA, width, height int, interp Interpolation) *image.RGBA {
	if src.Bounds().Dx() == width && src.Bounds().Dy() == height {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	interp.scaler().Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
