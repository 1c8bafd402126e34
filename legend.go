package crossstitch

// Legend lists the palette entries that appear in a finished pattern.
type Legend []PaletteEntry

// BuildLegend keeps the palette entries whose color was used, in palette
// order.
func BuildLegend(palette Palette, used ColorSet) Legend {
	legend := make(Legend, 0, len(used))
	for _, e := range palette {
		if used.Contains(e.RGB) {
			legend = append(legend, e)
		}
	}
	return legend
}
