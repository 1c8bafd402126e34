package crossstitch

import "testing"

func TestClosest(t *testing.T) {
	t.Parallel()

	palette := Palette{
		{RGB: RGB{0, 0, 0}, Symbol: 'A'},
		{RGB: RGB{255, 255, 255}, Symbol: 'B'},
		{RGB: RGB{200, 0, 0}, Symbol: 'C'},
	}

	tests := []struct {
		name  string
		pixel RGB
		want  int
	}{
		{name: "exact black", pixel: RGB{0, 0, 0}, want: 0},
		{name: "near white", pixel: RGB{240, 250, 245}, want: 1},
		{name: "reddish", pixel: RGB{180, 30, 20}, want: 2},
		{name: "dark red", pixel: RGB{90, 0, 0}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, entry := Closest(tt.pixel, palette)
			if idx != tt.want {
				t.Fatalf("Expected index %d, got %d", tt.want, idx)
			}
			if entry != palette[tt.want] {
				t.Errorf("Expected entry %+v, got %+v", palette[tt.want], entry)
			}
		})
	}
}

func TestClosestTieTakesLowestIndex(t *testing.T) {
	t.Parallel()

	palette := Palette{
		{RGB: RGB{10, 0, 0}, Symbol: 'A'},
		{RGB: RGB{0, 10, 0}, Symbol: 'B'},
		{RGB: RGB{0, 0, 10}, Symbol: 'C'},
	}
	// Equidistant from all three entries.
	if idx, _ := Closest(RGB{0, 0, 0}, palette); idx != 0 {
		t.Errorf("Expected index 0, got %d", idx)
	}
	// Equidistant from the last two.
	if idx, _ := Closest(RGB{0, 5, 5}, palette); idx != 1 {
		t.Errorf("Expected index 1, got %d", idx)
	}
}

func TestClosestIdempotent(t *testing.T) {
	t.Parallel()

	palette := Palette{
		{RGB: RGB{12, 34, 56}},
		{RGB: RGB{200, 100, 50}},
		{RGB: RGB{90, 90, 90}},
	}
	for _, px := range []RGB{{0, 0, 0}, {255, 0, 128}, {100, 100, 100}, {190, 110, 40}} {
		idx, entry := Closest(px, palette)
		again, _ := Closest(entry.RGB, palette)
		if again != idx {
			t.Errorf("snapping %+v twice moved it from %d to %d", px, idx, again)
		}
	}
}

func TestClosestEmptyPalette(t *testing.T) {
	t.Parallel()

	idx, entry := Closest(RGB{1, 2, 3}, nil)
	if idx != -1 {
		t.Errorf("Expected index -1, got %d", idx)
	}
	if entry != (PaletteEntry{}) {
		t.Errorf("Expected zero entry, got %+v", entry)
	}
}

func TestClassifierMatchesClosest(t *testing.T) {
	t.Parallel()

	palette := Palette{
		{RGB: RGB{0, 0, 0}},
		{RGB: RGB{128, 128, 128}},
		{RGB: RGB{255, 255, 255}},
		{RGB: RGB{255, 0, 0}},
	}
	cl := NewClassifier(palette)
	for r := 0; r < 256; r += 15 {
		for g := 0; g < 256; g += 51 {
			px := RGB{uint8(r), uint8(g), uint8(255 - r)}
			want, _ := Closest(px, palette)
			if got := cl.Classify(px); got != want {
				t.Fatalf("%+v: expected %d, got %d", px, want, got)
			}
			// Second lookup is served from the memo.
			if got := cl.Classify(px); got != want {
				t.Fatalf("%+v: memo returned %d, expected %d", px, got, want)
			}
		}
	}
}
