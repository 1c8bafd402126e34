package crossstitch

import (
	"errors"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// CatalogRecord is one raw entry of a thread catalog. The JSON keys follow the
// DMC colours.json layout.
type CatalogRecord struct {
	Hex  string `json:"Hex" yaml:"hex" parquet:"hex"`
	ID   string `json:"DMC" yaml:"id" parquet:"id"`
	Name string `json:"Name" yaml:"name" parquet:"name"`
}

// CatalogColor is a parsed catalog entry.
type CatalogColor struct {
	ID   string
	Name string
	RGB  RGB
}

var errHexFormat = errors.New("expected 6 hex digits")

// ParseCatalog converts raw records into catalog colors, keeping input order.
func ParseCatalog(records []CatalogRecord) ([]CatalogColor, error) {
	out := make([]CatalogColor, 0, len(records))
	for i, rec := range records {
		id := strings.TrimSpace(rec.ID)
		if id == "" {
			return nil, &CatalogParseError{Index: i, Field: "id"}
		}
		name := strings.TrimSpace(rec.Name)
		if name == "" {
			return nil, &CatalogParseError{Index: i, Field: "name"}
		}
		if strings.TrimSpace(rec.Hex) == "" {
			return nil, &CatalogParseError{Index: i, Field: "hex"}
		}
		rgb, err := ParseHex(rec.Hex)
		if err != nil {
			return nil, &CatalogParseError{Index: i, Field: "hex", Value: rec.Hex, Err: err}
		}
		out = append(out, CatalogColor{ID: id, Name: name, RGB: rgb})
	}
	return out, nil
}

// ParseHex parses "rrggbb" or "#rrggbb".
func ParseHex(s string) (RGB, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return RGB{}, errHexFormat
	}
	for i := 0; i < len(hex); i++ {
		if !isHexDigit(hex[i]) {
			return RGB{}, errHexFormat
		}
	}
	c, err := colorful.Hex("#" + strings.ToLower(hex))
	if err != nil {
		return RGB{}, err
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
