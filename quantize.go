package crossstitch

import (
	"context"
	"fmt"
	"image"
	"math"
)

// Dimension names the side of the pattern a SizeSpec fixes.
type Dimension int

const (
	DimensionWidth Dimension = iota
	DimensionHeight
)

// SizeSpec fixes one side of the pattern grid; the other follows the source
// aspect ratio.
type SizeSpec struct {
	Dimension Dimension
	Value     int
}

func ByWidth(width int) SizeSpec {
	return SizeSpec{Dimension: DimensionWidth, Value: width}
}

func ByHeight(height int) SizeSpec {
	return SizeSpec{Dimension: DimensionHeight, Value: height}
}

func (s SizeSpec) String() string {
	if s.Dimension == DimensionHeight {
		return fmt.Sprintf("height=%d", s.Value)
	}
	return fmt.Sprintf("width=%d", s.Value)
}

// Resolve computes the pattern size for a source of the given size. With
// aspect ratio R = height/width, a fixed width W gives height round(W*R) and a
// fixed height H gives width round(H/R).
func (s SizeSpec) Resolve(src image.Point) (width, height int, err error) {
	if src.X <= 0 || src.Y <= 0 {
		return 0, 0, &InvalidSizeError{Width: src.X, Height: src.Y}
	}
	ratio := float64(src.Y) / float64(src.X)
	switch s.Dimension {
	case DimensionHeight:
		height = s.Value
		width = int(math.Round(float64(height) / ratio))
	default:
		width = s.Value
		height = int(math.Round(float64(width) * ratio))
	}
	if width <= 0 || height <= 0 {
		return 0, 0, &InvalidSizeError{Width: width, Height: height}
	}
	return width, height, nil
}

// Quantize resizes img to the requested grid and snaps every cell to its
// nearest palette color. It returns the snapped pixels, the symbol per cell
// and the set of palette colors used.
func Quantize(ctx context.Context, img image.Image, size SizeSpec, palette Palette, opt Options) (*PixelGrid, *SymbolGrid, ColorSet, error) {
	pb := NewPatternBuilder(img, palette)
	if err := pb.Build(ctx, size, opt); err != nil {
		return nil, nil, nil, err
	}
	return pb.Pixels, pb.Symbols, pb.Used, nil
}
