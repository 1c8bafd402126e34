package utils

import (
	"fmt"
	"image"
	"image/color"

	cs "github.com/setanarut/crossstitch"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	DefaultCellSize = 20

	legendWidth     = 500
	legendRowHeight = 30
)

var (
	black = color.RGBA{A: 255}
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// ContrastColor picks black or white symbol ink for a cell color.
func ContrastColor(c cs.RGB) color.RGBA {
	if 0.299*float64(c.R)+0.587*float64(c.G)+0.114*float64(c.B) > 128 {
		return black
	}
	return white
}

// RenderPattern draws the chart: one cellSize square per stitch filled with
// its palette color, outlined in black, with the symbol centered.
func RenderPattern(p *cs.Pattern, cellSize int) *image.RGBA {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	px, sym := p.Pixels, p.Symbols
	img := image.NewRGBA(image.Rect(0, 0, px.Width*cellSize, px.Height*cellSize))
	draw.Draw(img, img.Bounds(), image.NewUniform(white), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	for y := range px.Height {
		for x := range px.Width {
			c := px.At(x, y)
			cell := image.Rect(x*cellSize, y*cellSize, (x+1)*cellSize, (y+1)*cellSize)
			fillOutlined(img, cell, c, black)

			s := sym.At(x, y)
			if s == 0 {
				continue
			}
			text := string(s)
			tx := cell.Min.X + (cellSize-font.MeasureString(face, text).Ceil())/2
			ty := cell.Min.Y + (cellSize-face.Height)/2 + face.Ascent
			drawText(img, face, tx, ty, text, ContrastColor(c))
		}
	}
	return img
}

// RenderLegend draws the key: one 30px row per legend entry with a swatch and
// "SYMBOL - ID - NAME". An empty legend yields a single blank row.
func RenderLegend(legend cs.Legend) *image.RGBA {
	rows := max(1, len(legend))
	img := image.NewRGBA(image.Rect(0, 0, legendWidth, rows*legendRowHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(white), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	for i, e := range legend {
		y := i * legendRowHeight
		fillOutlined(img, image.Rect(10, y+5, 41, y+26), e.RGB, black)
		ty := y + (legendRowHeight-face.Height)/2 + face.Ascent
		drawText(img, face, 50, ty, LegendLabel(e), black)
	}
	return img
}

// LegendLabel formats an entry the way the key image prints it.
func LegendLabel(e cs.PaletteEntry) string {
	return fmt.Sprintf("%c - %s - %s", e.Symbol, e.ID, e.Name)
}

func fillOutlined(img *image.RGBA, r image.Rectangle, fill cs.RGB, outline color.RGBA) {
	draw.Draw(img, r, image.NewUniform(fill), image.Point{}, draw.Src)
	ink := image.NewUniform(outline)
	draw.Draw(img, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), ink, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), ink, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), ink, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), ink, image.Point{}, draw.Src)
}

func drawText(img *image.RGBA, face font.Face, x, y int, text string, ink color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(ink),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
