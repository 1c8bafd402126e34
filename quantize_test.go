package crossstitch

import (
	"context"
	"errors"
	"image"
	"image/color"
	"reflect"
	"testing"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		size  SizeSpec
		src   image.Point
		wantW int
		wantH int
	}{
		{name: "by width square", size: ByWidth(50), src: image.Pt(100, 100), wantW: 50, wantH: 50},
		{name: "by width landscape", size: ByWidth(80), src: image.Pt(400, 300), wantW: 80, wantH: 60},
		{name: "by width rounds", size: ByWidth(10), src: image.Pt(300, 100), wantW: 10, wantH: 3},
		{name: "by height portrait", size: ByHeight(60), src: image.Pt(300, 400), wantW: 45, wantH: 60},
		{name: "by height rounds", size: ByHeight(5), src: image.Pt(100, 30), wantW: 17, wantH: 5},
		{name: "upscale", size: ByWidth(200), src: image.Pt(20, 10), wantW: 200, wantH: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, err := tt.size.Resolve(tt.src)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("Expected %dx%d, got %dx%d", tt.wantW, tt.wantH, w, h)
			}
		})
	}
}

func TestResolveInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		size SizeSpec
		src  image.Point
	}{
		{name: "zero width", size: ByWidth(0), src: image.Pt(10, 10)},
		{name: "negative height", size: ByHeight(-3), src: image.Pt(10, 10)},
		{name: "height rounds to zero", size: ByWidth(1), src: image.Pt(1000, 1)},
		{name: "empty source", size: ByWidth(10), src: image.Pt(0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.size.Resolve(tt.src)
			var serr *InvalidSizeError
			if !errors.As(err, &serr) {
				t.Fatalf("expected InvalidSizeError, got %v", err)
			}
		})
	}
}

func twoTonePalette() Palette {
	return Palette{
		{RGB: RGB{0, 0, 0}, Symbol: 'A', ID: "310", Name: "Black"},
		{RGB: RGB{255, 255, 255}, Symbol: 'B', ID: "B5200", Name: "Snow White"},
		{RGB: RGB{200, 30, 30}, Symbol: 'C', ID: "321", Name: "Red"},
	}
}

func TestQuantizeSolidSameSize(t *testing.T) {
	t.Parallel()

	img := solidImage(6, 4, RGB{190, 40, 35})
	pixels, symbols, used, err := Quantize(context.Background(), img, ByWidth(6), twoTonePalette(), DefaultOptions())
	if err != nil {
		t.Fatalf("quantize: %v", err)
	}
	if pixels.Width != 6 || pixels.Height != 4 {
		t.Fatalf("expected 6x4 grid, got %dx%d", pixels.Width, pixels.Height)
	}
	for y := range 4 {
		for x := range 6 {
			if pixels.At(x, y) != (RGB{200, 30, 30}) {
				t.Fatalf("pixel (%d,%d): expected red, got %+v", x, y, pixels.At(x, y))
			}
			if symbols.At(x, y) != 'C' || symbols.IndexAt(x, y) != 2 {
				t.Fatalf("cell (%d,%d): expected C/2, got %c/%d", x, y, symbols.At(x, y), symbols.IndexAt(x, y))
			}
		}
	}
	if len(used) != 1 || !used.Contains(RGB{200, 30, 30}) {
		t.Errorf("unexpected used set: %v", used)
	}
}

func TestQuantizeSolidResized(t *testing.T) {
	t.Parallel()

	for _, interp := range []Interpolation{InterpolationCatmullRom, InterpolationBiLinear, InterpolationNearest} {
		t.Run(interp.String(), func(t *testing.T) {
			opt := DefaultOptions()
			opt.Interpolation = interp
			img := solidImage(64, 32, RGB{20, 20, 20})
			pixels, symbols, used, err := Quantize(context.Background(), img, ByWidth(10), twoTonePalette(), opt)
			if err != nil {
				t.Fatalf("quantize: %v", err)
			}
			if pixels.Width != 10 || pixels.Height != 5 {
				t.Fatalf("expected 10x5 grid, got %dx%d", pixels.Width, pixels.Height)
			}
			for _, s := range symbols.Symbols {
				if s != 'A' {
					t.Fatalf("expected every cell to be A, got %c", s)
				}
			}
			if len(used) != 1 {
				t.Errorf("Expected one used color, got %d", len(used))
			}
		})
	}
}

func TestQuantizeTransparentBecomesWhite(t *testing.T) {
	t.Parallel()

	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	// Fully transparent black everywhere.
	fillRect(img, img.Bounds(), color.NRGBA{})

	pixels, symbols, _, err := Quantize(context.Background(), img, ByHeight(4), twoTonePalette(), DefaultOptions())
	if err != nil {
		t.Fatalf("quantize: %v", err)
	}
	for i, px := range pixels.Pix {
		if px != (RGB{255, 255, 255}) {
			t.Fatalf("cell %d: expected white, got %+v", i, px)
		}
	}
	if symbols.At(0, 0) != 'B' {
		t.Errorf("Expected symbol B, got %c", symbols.At(0, 0))
	}
}

func TestQuantizeCustomBackground(t *testing.T) {
	t.Parallel()

	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	opt := DefaultOptions()
	opt.Background = color.Black

	_, symbols, _, err := Quantize(context.Background(), img, ByWidth(4), twoTonePalette(), opt)
	if err != nil {
		t.Fatalf("quantize: %v", err)
	}
	if symbols.At(2, 2) != 'A' {
		t.Errorf("Expected symbol A over a black background, got %c", symbols.At(2, 2))
	}
}

func TestQuantizeEmptyPalette(t *testing.T) {
	t.Parallel()

	img := solidImage(3, 3, RGB{10, 20, 30})
	pixels, symbols, used, err := Quantize(context.Background(), img, ByWidth(3), nil, DefaultOptions())
	if err != nil {
		t.Fatalf("quantize: %v", err)
	}
	if pixels.At(1, 1) != (RGB{10, 20, 30}) {
		t.Errorf("Expected source pixel to be kept, got %+v", pixels.At(1, 1))
	}
	if symbols.At(1, 1) != 0 || symbols.IndexAt(1, 1) != -1 {
		t.Errorf("Expected no symbol, got %c/%d", symbols.At(1, 1), symbols.IndexAt(1, 1))
	}
	if len(used) != 0 {
		t.Errorf("Expected no used colors, got %d", len(used))
	}
}

func TestQuantizeProgressInOrder(t *testing.T) {
	t.Parallel()

	img := image.NewNRGBA(image.Rect(0, 0, 30, 40))
	for y := range 40 {
		for x := range 30 {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 8), G: uint8(y * 6), B: 90, A: 255})
		}
	}

	sink := &recordingSink{}
	opt := DefaultOptions()
	opt.Workers = 8
	opt.Sink = sink
	if _, _, _, err := Quantize(context.Background(), img, ByWidth(30), twoTonePalette(), opt); err != nil {
		t.Fatalf("quantize: %v", err)
	}

	if len(sink.events) != 40 {
		t.Fatalf("expected 40 progress events, got %d", len(sink.events))
	}
	for i, ev := range sink.events {
		if ev.RowsDone != i+1 || ev.RowsTotal != 40 {
			t.Fatalf("event %d out of order: %+v", i, ev)
		}
		if ev.Percent != (i+1)*100/40 {
			t.Errorf("event %d: expected %d%%, got %d%%", i, (i+1)*100/40, ev.Percent)
		}
	}
	if sink.events[39].Percent != 100 {
		t.Errorf("Expected last event at 100%%, got %d%%", sink.events[39].Percent)
	}

	want := []string{"Resizing image to 30x40...", "Finding closest palette colors..."}
	if !reflect.DeepEqual(sink.messages, want) {
		t.Errorf("Expected messages %v, got %v", want, sink.messages)
	}
}

func TestQuantizeWorkerCountDoesNotChangeResult(t *testing.T) {
	t.Parallel()

	img := image.NewNRGBA(image.Rect(0, 0, 50, 37))
	for y := range 37 {
		for x := range 50 {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 5), G: uint8(y * 7), B: uint8(x * y), A: 255})
		}
	}

	run := func(workers int) (*PixelGrid, *SymbolGrid, ColorSet) {
		opt := DefaultOptions()
		opt.Workers = workers
		pixels, symbols, used, err := Quantize(context.Background(), img, ByWidth(25), twoTonePalette(), opt)
		if err != nil {
			t.Fatalf("quantize with %d workers: %v", workers, err)
		}
		return pixels, symbols, used
	}

	p1, s1, u1 := run(1)
	p8, s8, u8 := run(8)
	if !reflect.DeepEqual(p1, p8) {
		t.Error("pixel grids differ between 1 and 8 workers")
	}
	if !reflect.DeepEqual(s1, s8) {
		t.Error("symbol grids differ between 1 and 8 workers")
	}
	if !reflect.DeepEqual(u1, u8) {
		t.Error("used sets differ between 1 and 8 workers")
	}
}

func TestQuantizeCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, _, err := Quantize(ctx, solidImage(20, 20, RGB{1, 2, 3}), ByWidth(20), twoTonePalette(), DefaultOptions())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestPatternBuilderReconstruct(t *testing.T) {
	t.Parallel()

	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 10, B: 10, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 250, G: 250, B: 250, A: 255})

	pb := NewPatternBuilder(img, twoTonePalette())
	if err := pb.Build(context.Background(), ByWidth(2), DefaultOptions()); err != nil {
		t.Fatalf("build: %v", err)
	}
	out := pb.Reconstruct()
	if got := out.RGBAAt(0, 0); got != (color.RGBA{A: 255}) {
		t.Errorf("Expected black, got %+v", got)
	}
	if got := out.RGBAAt(1, 0); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("Expected white, got %+v", got)
	}
	if pb.Symbols.String() != "AB\n" {
		t.Errorf("Expected \"AB\\n\", got %q", pb.Symbols.String())
	}
}

func TestOptionsFromSize(t *testing.T) {
	t.Parallel()

	if got := OptionsFromSize(image.Pt(10, 10)).Workers; got != 1 {
		t.Errorf("Expected 1 worker for a tiny grid, got %d", got)
	}
	big := OptionsFromSize(image.Pt(4000, 4000))
	if big.Workers != DefaultOptions().Workers {
		t.Errorf("Expected %d workers for a large grid, got %d", DefaultOptions().Workers, big.Workers)
	}
}
