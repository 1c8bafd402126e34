package crossstitch

import (
	"image"
	"image/color"
	"sync"
)

func fillRect(img *image.NRGBA, rect image.Rectangle, fill color.NRGBA) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			img.SetNRGBA(x, y, fill)
		}
	}
}

func solidImage(w, h int, c RGB) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	fillRect(img, img.Bounds(), color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
	return img
}

// recordingSink keeps everything it receives.
type recordingSink struct {
	mu       sync.Mutex
	messages []string
	events   []ProgressEvent
}

func (s *recordingSink) Message(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

func (s *recordingSink) Progress(ev ProgressEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func catalogOf(colors ...RGB) []CatalogColor {
	out := make([]CatalogColor, len(colors))
	for i, c := range colors {
		out[i] = CatalogColor{ID: string(rune('0' + i%10)), Name: c.Hex(), RGB: c}
	}
	return out
}
