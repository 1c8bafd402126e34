package crossstitch

import (
	"bytes"
	"context"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Request describes one conversion job.
type Request struct {
	Image   []byte // encoded PNG, JPEG, GIF, BMP, TIFF or WebP
	Size    SizeSpec
	Catalog []CatalogRecord
	Colors  int // 0 keeps the whole catalog
}

// Pattern is the quantized grid handed to a renderer.
type Pattern struct {
	Palette Palette
	Pixels  *PixelGrid
	Symbols *SymbolGrid
	Used    ColorSet
}

type Result struct {
	Pattern *Pattern
	Legend  Legend
}

// DecodeImage decodes any registered raster format.
func DecodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, &ImageDecodeError{Err: errors.New("empty image data")}
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &ImageDecodeError{Err: err}
	}
	return img, nil
}

// Convert runs a whole job: parse the catalog, reduce the palette, decode and
// quantize the image, and build the legend.
func Convert(ctx context.Context, req Request, opt Options) (*Result, error) {
	opt = opt.normalized()
	opt.Sink.Message("Starting image processing...")
	opt.Sink.Message("Loading colors...")
	catalog, err := ParseCatalog(req.Catalog)
	if err != nil {
		return nil, err
	}
	palette, err := ReducePalette(catalog, req.Colors, opt)
	if err != nil {
		return nil, err
	}
	img, err := DecodeImage(req.Image)
	if err != nil {
		return nil, err
	}
	return ConvertImage(ctx, img, req.Size, palette, opt)
}

// ConvertImage quantizes an already decoded image against a built palette.
func ConvertImage(ctx context.Context, img image.Image, size SizeSpec, palette Palette, opt Options) (*Result, error) {
	opt = opt.normalized()
	pixels, symbols, used, err := Quantize(ctx, img, size, palette, opt)
	if err != nil {
		return nil, err
	}
	legend := BuildLegend(palette, used)
	opt.Sink.Message("Pattern complete.")
	opt.Logger.Info("Pattern generated",
		"width", pixels.Width,
		"height", pixels.Height,
		"palette_colors", len(palette),
		"legend_colors", len(legend))
	return &Result{
		Pattern: &Pattern{
			Palette: palette,
			Pixels:  pixels,
			Symbols: symbols,
			Used:    used,
		},
		Legend: legend,
	}, nil
}

// Task is a conversion running on its own goroutine.
type Task struct {
	done   chan struct{}
	result *Result
	err    error
}

// Start launches Convert and returns immediately.
func Start(ctx context.Context, req Request, opt Options) *Task {
	t := &Task{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		t.result, t.err = Convert(ctx, req, opt)
	}()
	return t
}

func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the conversion finishes.
func (t *Task) Wait() (*Result, error) {
	<-t.done
	return t.result, t.err
}
