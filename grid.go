package crossstitch

import (
	"image"
	"strings"
)

// PixelGrid holds the resized image, snapped to palette colors, row-major.
type PixelGrid struct {
	Width, Height int
	Pix           []RGB
}

func NewPixelGrid(width, height int) *PixelGrid {
	return &PixelGrid{
		Width:  width,
		Height: height,
		Pix:    make([]RGB, width*height),
	}
}

func (g *PixelGrid) At(x, y int) RGB {
	return g.Pix[y*g.Width+x]
}

func (g *PixelGrid) Set(x, y int, c RGB) {
	g.Pix[y*g.Width+x] = c
}

func (g *PixelGrid) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.Width, g.Height))
	for y := range g.Height {
		for x := range g.Width {
			c := g.At(x, y)
			off := img.PixOffset(x, y)
			img.Pix[off] = c.R
			img.Pix[off+1] = c.G
			img.Pix[off+2] = c.B
			img.Pix[off+3] = 255
		}
	}
	return img
}

// SymbolGrid holds one symbol per pattern cell along with the palette index it
// came from (-1 when the palette was empty).
type SymbolGrid struct {
	Width, Height int
	Symbols       []rune
	Index         []int
}

func NewSymbolGrid(width, height int) *SymbolGrid {
	return &SymbolGrid{
		Width:   width,
		Height:  height,
		Symbols: make([]rune, width*height),
		Index:   make([]int, width*height),
	}
}

func (g *SymbolGrid) At(x, y int) rune {
	return g.Symbols[y*g.Width+x]
}

func (g *SymbolGrid) IndexAt(x, y int) int {
	return g.Index[y*g.Width+x]
}

func (g *SymbolGrid) Row(y int) []rune {
	return g.Symbols[y*g.Width : (y+1)*g.Width]
}

func (g *SymbolGrid) set(x, y int, symbol rune, idx int) {
	off := y*g.Width + x
	g.Symbols[off] = symbol
	g.Index[off] = idx
}

// String returns the grid as text, one line per row.
func (g *SymbolGrid) String() string {
	var sb strings.Builder
	sb.Grow((g.Width + 1) * g.Height)
	for y := range g.Height {
		for _, s := range g.Row(y) {
			if s == 0 {
				s = ' '
			}
			sb.WriteRune(s)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
