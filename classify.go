package crossstitch

import "math"

// Closest returns the palette entry nearest to pixel by Euclidean RGB distance
// and its index. Equal distances resolve to the lowest index. An empty palette
// yields index -1.
func Closest(pixel RGB, palette Palette) (int, PaletteEntry) {
	best, bestD := -1, math.MaxInt
	for i, e := range palette {
		if d := pixel.distSq(e.RGB); d < bestD {
			best, bestD = i, d
		}
	}
	if best < 0 {
		return -1, PaletteEntry{}
	}
	return best, palette[best]
}

// Classifier memoizes Closest for one palette. Not safe for concurrent use;
// give each worker its own.
type Classifier struct {
	palette Palette
	memo    map[RGB]int
}

func NewClassifier(palette Palette) *Classifier {
	return &Classifier{
		palette: palette,
		memo:    make(map[RGB]int),
	}
}

// Classify returns the palette index for pixel.
func (c *Classifier) Classify(pixel RGB) int {
	if idx, ok := c.memo[pixel]; ok {
		return idx
	}
	idx, _ := Closest(pixel, c.palette)
	c.memo[pixel] = idx
	return idx
}
