package utils

import (
	"fmt"
	"io"

	cs "github.com/setanarut/crossstitch"
	"gopkg.in/yaml.v3"
)

// LegendRow is one thread in a pattern report.
type LegendRow struct {
	Symbol   string `yaml:"symbol" json:"symbol"`
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	Hex      string `yaml:"hex" json:"hex"`
	Stitches int    `yaml:"stitches" json:"stitches"`
}

// Report summarizes a finished pattern for export.
type Report struct {
	Width    int         `yaml:"width" json:"width"`
	Height   int         `yaml:"height" json:"height"`
	Stitches int         `yaml:"stitches" json:"stitches"`
	Legend   []LegendRow `yaml:"legend" json:"legend"`
}

// NewReport counts stitches per legend entry. Entries that share a centroid
// color each count only the cells assigned to their own palette index.
func NewReport(res *cs.Result) Report {
	p := res.Pattern
	counts := make([]int, len(p.Palette))
	total := 0
	for _, idx := range p.Symbols.Index {
		if idx >= 0 {
			counts[idx]++
			total++
		}
	}

	// Legend is an ordered subsequence of the palette.
	rows := make([]LegendRow, 0, len(res.Legend))
	for i, e := range p.Palette {
		if len(rows) == len(res.Legend) {
			break
		}
		if res.Legend[len(rows)] != e {
			continue
		}
		rows = append(rows, LegendRow{
			Symbol:   string(e.Symbol),
			ID:       e.ID,
			Name:     e.Name,
			Hex:      e.RGB.Hex(),
			Stitches: counts[i],
		})
	}
	return Report{
		Width:    p.Pixels.Width,
		Height:   p.Pixels.Height,
		Stitches: total,
		Legend:   rows,
	}
}

// WriteLegendYAML writes the pattern report as YAML.
func WriteLegendYAML(w io.Writer, res *cs.Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewReport(res)); err != nil {
		return fmt.Errorf("failed to encode legend: %w", err)
	}
	return enc.Close()
}
