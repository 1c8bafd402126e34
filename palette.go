package crossstitch

import (
	"fmt"
	"math"

	"github.com/muesli/clusters"
)

// Symbols is the symbol alphabet. Palettes larger than the alphabet reuse
// symbols by index modulo its length; the swatch color still tells them apart.
const Symbols = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// SymbolFor returns the symbol for palette slot i.
func SymbolFor(i int) rune {
	return rune(Symbols[i%len(Symbols)])
}

// PaletteEntry is one visible palette slot. RGB may be a cluster centroid
// rather than a catalog color; ID and Name come from the catalog.
type PaletteEntry struct {
	RGB    RGB
	Symbol rune
	ID     string
	Name   string
}

type Palette []PaletteEntry

// ReducePalette builds the pattern palette from a catalog. k == 0 keeps every
// catalog color in catalog order; 0 < k <= len(catalog) clusters the catalog
// into exactly k colors.
func ReducePalette(catalog []CatalogColor, k int, opt Options) (Palette, error) {
	opt = opt.normalized()
	if k < 0 || k > len(catalog) {
		return nil, &InvalidReductionError{K: k, Available: len(catalog)}
	}

	if k == 0 {
		opt.Sink.Message(fmt.Sprintf("Using all %d colors without clustering...", len(catalog)))
		palette := make(Palette, len(catalog))
		for i, c := range catalog {
			palette[i] = PaletteEntry{RGB: c.RGB, Symbol: SymbolFor(i), ID: c.ID, Name: c.Name}
		}
		return palette, nil
	}

	opt.Sink.Message(fmt.Sprintf("Clustering %d colors into %d groups...", len(catalog), k))
	points := make(clusters.Observations, len(catalog))
	for i, c := range catalog {
		points[i] = clusters.Coordinates{float64(c.RGB.R), float64(c.RGB.G), float64(c.RGB.B)}
	}
	part := partitionKMeans(points, k, opt.Seed, opt.Restarts, opt.MaxIterations)

	// First catalog entry per cluster supplies id and name.
	first := make([]int, k)
	for ci := range first {
		first[ci] = -1
	}
	for i, ci := range part.labels {
		if first[ci] < 0 {
			first[ci] = i
		}
	}

	palette := make(Palette, k)
	for ci := range k {
		src := catalog[first[ci]]
		palette[ci] = PaletteEntry{
			RGB:    centroidRGB(part.centers[ci]),
			Symbol: SymbolFor(ci),
			ID:     src.ID,
			Name:   src.Name,
		}
	}

	opt.Sink.Message(fmt.Sprintf("Reduced to %d colors.", len(palette)))
	opt.Logger.Info("Palette reduced",
		"catalog_colors", len(catalog),
		"colors", k,
		"seed", opt.Seed,
		"restarts", opt.Restarts,
		"inertia", part.inertia)
	return palette, nil
}

func centroidRGB(c clusters.Coordinates) RGB {
	return RGB{R: roundChannel(c[0]), G: roundChannel(c[1]), B: roundChannel(c[2])}
}

func roundChannel(v float64) uint8 {
	return uint8(math.Round(max(0, min(255, v))))
}
