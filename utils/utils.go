package utils

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"math"
	"os"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	cs "github.com/setanarut/crossstitch"
)

// HighlightMethod selects how the dominant colors of a source image are found.
type HighlightMethod int

const (
	HighlightDominantColor HighlightMethod = iota
	HighlightKMeans
)

func (m HighlightMethod) String() string {
	switch m {
	case HighlightKMeans:
		return "kmeans"
	default:
		return "dominantcolor"
	}
}

// ParseHighlightMethod maps a flag value to a HighlightMethod.
func ParseHighlightMethod(s string) (HighlightMethod, error) {
	switch s {
	case "dominantcolor", "":
		return HighlightDominantColor, nil
	case "kmeans":
		return HighlightKMeans, nil
	}
	return HighlightDominantColor, fmt.Errorf("unknown highlight method %q", s)
}

// Highlight is a prominent source color and the palette entry it snaps to.
type Highlight struct {
	Source cs.RGB
	Weight float64 // share of the image, 0..1
	Index  int     // palette index, -1 for an empty palette
	Entry  cs.PaletteEntry
}

type weightedColor struct {
	col    colorful.Color
	weight float64
}

// Highlights finds up to k visually distinct dominant colors of img and
// matches each to its closest palette entry. Results are ordered by weight.
func Highlights(img image.Image, k int, method HighlightMethod, palette cs.Palette) []Highlight {
	var weighted []weightedColor
	switch method {
	case HighlightKMeans:
		weighted = kmeansCandidates(img, k)
		if len(weighted) == 0 {
			slog.Warn("kmeans returned no clusters, falling back to dominantcolor")
			weighted = dominantCandidates(img, k)
		}
	default:
		weighted = dominantCandidates(img, k)
	}

	picked := selectDiverse(weighted, k)
	total := 0.0
	for _, w := range picked {
		total += w.weight
	}
	slices.SortStableFunc(picked, func(a, b weightedColor) int {
		switch {
		case a.weight > b.weight:
			return -1
		case a.weight < b.weight:
			return 1
		}
		return 0
	})

	out := make([]Highlight, 0, len(picked))
	for _, w := range picked {
		r, g, b := w.col.Clamped().RGB255()
		src := cs.RGB{R: r, G: g, B: b}
		idx, entry := cs.Closest(src, palette)
		out = append(out, Highlight{
			Source: src,
			Weight: w.weight / total,
			Index:  idx,
			Entry:  entry,
		})
	}
	return out
}

func dominantCandidates(img image.Image, k int) []weightedColor {
	if k <= 0 {
		return nil
	}
	candidates := dominantcolor.FindWeight(img, max(24, k*8))
	out := make([]weightedColor, 0, len(candidates))
	for _, c := range candidates {
		col, _ := colorful.MakeColor(c.RGBA)
		out = append(out, weightedColor{col: col.Clamped(), weight: max(c.Weight, 1e-6)})
	}
	return out
}

// kmeansCandidates clusters a subsample of opaque pixels into 4k groups and
// weights each centroid by its population.
func kmeansCandidates(img image.Image, k int) []weightedColor {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if k <= 0 || width == 0 || height == 0 {
		return nil
	}

	const maxSamples = 12000
	step := 1
	if width*height > maxSamples {
		step = int(math.Sqrt(float64(width*height)/maxSamples)) + 1
	}
	dataset := make(clusters.Observations, 0, min(width*height, maxSamples))
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			r, g, bl, a := img.At(x, y).RGBA()
			if a == 0 {
				continue
			}
			dataset = append(dataset, clusters.Coordinates{
				float64(r) / 65535,
				float64(g) / 65535,
				float64(bl) / 65535,
			})
		}
	}
	workK := min(max(k*4, k+2), len(dataset))
	if workK <= 0 {
		return nil
	}
	cc, err := kmeans.New().Partition(dataset, workK)
	if err != nil {
		slog.Warn("kmeans partition failed", "error", err)
		return nil
	}

	out := make([]weightedColor, 0, len(cc))
	for _, c := range cc {
		if len(c.Observations) == 0 || len(c.Center) < 3 {
			continue
		}
		col := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}.Clamped()
		out = append(out, weightedColor{col: col, weight: float64(len(c.Observations))})
	}
	return out
}

// selectDiverse greedily picks k candidates, starting from the heaviest and
// then maximizing Lab distance to the picked set scaled by weight.
func selectDiverse(cands []weightedColor, k int) []weightedColor {
	if k <= 0 || len(cands) == 0 {
		return nil
	}
	k = min(k, len(cands))

	labs := make([][3]float64, len(cands))
	maxW := 0.0
	seed := 0
	for i, c := range cands {
		l, a, b := c.col.Lab()
		labs[i] = [3]float64{l, a, b}
		if c.weight > maxW {
			maxW, seed = c.weight, i
		}
	}

	picked := []int{seed}
	taken := make([]bool, len(cands))
	taken[seed] = true
	for len(picked) < k {
		best, bestScore := -1, -1.0
		for i := range cands {
			if taken[i] {
				continue
			}
			minD2 := math.MaxFloat64
			for _, s := range picked {
				d0 := labs[i][0] - labs[s][0]
				d1 := labs[i][1] - labs[s][1]
				d2 := labs[i][2] - labs[s][2]
				minD2 = min(minD2, d0*d0+d1*d1+d2*d2)
			}
			score := math.Sqrt(minD2) * (0.55 + 0.45*math.Sqrt(cands[i].weight/maxW))
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		taken[best] = true
		picked = append(picked, best)
	}

	out := make([]weightedColor, len(picked))
	for i, idx := range picked {
		out[i] = cands[idx]
	}
	return out
}

// SortByBrightness orders palette entries from darkest to brightest by
// relative luminance. Symbols stay attached to their entries.
func SortByBrightness(palette cs.Palette) {
	luminance := func(c cs.RGB) float64 {
		r, g, b := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.LinearRgb()
		return 0.2126*r + 0.7152*g + 0.0722*b
	}
	slices.SortStableFunc(palette, func(a, b cs.PaletteEntry) int {
		ya, yb := luminance(a.RGB), luminance(b.RGB)
		switch {
		case ya < yb:
			return -1
		case ya > yb:
			return 1
		}
		return 0
	})
}

// ReadImage decodes an image file of any format the core package registers.
func ReadImage(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return cs.DecodeImage(data)
}

// SaveImage writes img as PNG.
func SaveImage(img image.Image, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// PaletteStrip draws one tileSize square per palette entry, left to right.
func PaletteStrip(palette cs.Palette, tileSize int) (*image.RGBA, error) {
	if len(palette) == 0 {
		return nil, errors.New("empty palette")
	}
	if tileSize <= 0 {
		tileSize = 64
	}
	img := image.NewRGBA(image.Rect(0, 0, tileSize*len(palette), tileSize))
	for i, e := range palette {
		c := color.RGBA{R: e.RGB.R, G: e.RGB.G, B: e.RGB.B, A: 255}
		x0 := i * tileSize
		for y := range tileSize {
			for x := x0; x < x0+tileSize; x++ {
				img.SetRGBA(x, y, c)
			}
		}
	}
	return img, nil
}

// SavePalette writes the palette swatch strip as PNG.
func SavePalette(palette cs.Palette, tileSize int, filename string) error {
	img, err := PaletteStrip(palette, tileSize)
	if err != nil {
		return err
	}
	return SaveImage(img, filename)
}
