package crossstitch

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

const minRestarts = 10

type Options struct {
	// Seed for k-means++ center selection.
	// Same catalog, color count and seed always give the same palette.
	Seed uint64
	// Independent k-means runs per reduction; the lowest-inertia run wins.
	// Values below 10 are raised to 10.
	Restarts int
	// Lloyd iteration cap per run. 300 is plenty for thread catalogs (~500 colors).
	MaxIterations int
	// Rows classified concurrently. 0 => GOMAXPROCS.
	Workers int
	// Resampling filter used when resizing the source to the pattern grid.
	Interpolation Interpolation
	// Transparent pixels are composited over this color before resizing.
	// Alpha is ignored; nil => white.
	Background color.Color
	Logger     *slog.Logger
	// Receives per-job messages and row progress. nil => discarded.
	Sink Sink
}

func DefaultOptions() Options {
	return Options{
		Seed:          42,
		Restarts:      minRestarts,
		MaxIterations: 300,
		Workers:       runtime.GOMAXPROCS(0),
		Interpolation: InterpolationCatmullRom,
		Background:    color.White,
	}
}

// OptionsFromSize scales the worker count to the pattern area. Small grids
// finish faster on a single goroutine.
func OptionsFromSize(size image.Point) Options {
	opt := DefaultOptions()
	if size.X <= 0 || size.Y <= 0 {
		return opt
	}
	cells := size.X * size.Y
	opt.Workers = max(1, min(opt.Workers, cells/(64*64)))
	return opt
}

func (o Options) normalized() Options {
	if o.Restarts < minRestarts {
		o.Restarts = minRestarts
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = 300
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Background == nil {
		o.Background = color.White
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Sink == nil {
		o.Sink = NopSink
	}
	return o
}

// PatternBuilder runs the quantization stages for one image and keeps every
// intermediate result.
type PatternBuilder struct {
	InputImage image.Image
	Palette    Palette
	Flat       *image.RGBA // opaque copy at source size
	Resized    *image.RGBA // Flat scaled to the pattern grid
	Pixels     *PixelGrid
	Symbols    *SymbolGrid
	Used       ColorSet
}

func NewPatternBuilder(input image.Image, palette Palette) *PatternBuilder {
	return &PatternBuilder{
		InputImage: input,
		Palette:    palette,
	}
}

func (pb *PatternBuilder) Build(ctx context.Context, size SizeSpec, opt Options) error {
	opt = opt.normalized()
	w, h, err := size.Resolve(pb.InputImage.Bounds().Size())
	if err != nil {
		return err
	}
	pb.Flat = flatten(pb.InputImage, opt.Background)
	opt.Sink.Message(fmt.Sprintf("Resizing image to %dx%d...", w, h))
	pb.Resized = resize(pb.Flat, w, h, opt.Interpolation)
	opt.Sink.Message("Finding closest palette colors...")
	return pb.classify(ctx, opt)
}

// Reconstruct renders the snapped pixel grid.
func (pb *PatternBuilder) Reconstruct() *image.RGBA {
	if pb.Pixels == nil {
		return image.NewRGBA(image.Rectangle{})
	}
	return pb.Pixels.Image()
}

// classify snaps every pixel of Resized to the palette. Rows are handed out in
// increasing order to a fixed set of workers, each owning its Classifier memo.
func (pb *PatternBuilder) classify(ctx context.Context, opt Options) error {
	b := pb.Resized.Bounds()
	w, h := b.Dx(), b.Dy()
	pb.Pixels = NewPixelGrid(w, h)
	pb.Symbols = NewSymbolGrid(w, h)
	pb.Used = ColorSet{}

	workers := max(1, min(opt.Workers, h))
	usedBy := make([][]bool, workers)
	reporter := newRowReporter(h, opt.Sink)

	var next atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	for wi := range workers {
		usedBy[wi] = make([]bool, len(pb.Palette))
		g.Go(func() error {
			cl := NewClassifier(pb.Palette)
			for {
				y := int(next.Add(1) - 1)
				if y >= h {
					return nil
				}
				if err := gctx.Err(); err != nil {
					return err
				}
				pb.classifyRow(cl, y, usedBy[wi])
				reporter.rowDone(y)
			}
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, entry := range pb.Palette {
		for _, used := range usedBy {
			if used[i] {
				pb.Used.Add(entry.RGB)
				break
			}
		}
	}
	opt.Logger.Debug("classified pattern", "width", w, "height", h, "workers", workers, "used_colors", len(pb.Used))
	return nil
}

func (pb *PatternBuilder) classifyRow(cl *Classifier, y int, used []bool) {
	src := pb.Resized
	w := pb.Pixels.Width
	row := src.Pix[y*src.Stride : y*src.Stride+w*4]
	for x := range w {
		off := x * 4
		px := RGB{R: row[off], G: row[off+1], B: row[off+2]}
		idx := cl.Classify(px)
		if idx < 0 {
			pb.Pixels.Set(x, y, px)
			pb.Symbols.set(x, y, 0, -1)
			continue
		}
		entry := pb.Palette[idx]
		pb.Pixels.Set(x, y, entry.RGB)
		pb.Symbols.set(x, y, entry.Symbol, idx)
		used[idx] = true
	}
}
