package utils

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
	cs "github.com/setanarut/crossstitch"
	"gopkg.in/yaml.v3"
)

//go:embed catalogs/dmc.json
var dmcCatalog []byte

// DefaultCatalog returns the bundled DMC thread subset.
func DefaultCatalog() ([]cs.CatalogRecord, error) {
	return DecodeCatalog(bytes.NewReader(dmcCatalog), "json")
}

// CatalogFormat maps a file name to "json", "yaml" or "parquet".
func CatalogFormat(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return "json", nil
	case ".yaml", ".yml":
		return "yaml", nil
	case ".parquet":
		return "parquet", nil
	default:
		return "", fmt.Errorf("unsupported catalog format %q", ext)
	}
}

// LoadCatalog reads raw catalog records from a .json, .yaml/.yml or .parquet
// file. An empty path loads the bundled DMC catalog.
func LoadCatalog(path string) ([]cs.CatalogRecord, error) {
	if path == "" {
		return DefaultCatalog()
	}
	format, err := CatalogFormat(path)
	if err != nil {
		return nil, err
	}
	slog.Debug("Loading catalog", "path", path, "format", format)

	if format == "parquet" {
		return loadParquetCatalog(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()
	return DecodeCatalog(f, format)
}

// DecodeCatalog decodes json or yaml records from r.
func DecodeCatalog(r io.Reader, format string) ([]cs.CatalogRecord, error) {
	var records []cs.CatalogRecord
	switch format {
	case "json":
		if err := json.NewDecoder(r).Decode(&records); err != nil {
			return nil, fmt.Errorf("failed to decode json catalog: %w", err)
		}
	case "yaml":
		if err := yaml.NewDecoder(r).Decode(&records); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode yaml catalog: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}
	return records, nil
}

func loadParquetCatalog(path string) ([]cs.CatalogRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[cs.CatalogRecord](pf)
	defer reader.Close()

	records := make([]cs.CatalogRecord, 0, pf.NumRows())
	rows := make([]cs.CatalogRecord, 128)
	for {
		n, err := reader.Read(rows)
		records = append(records, rows[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}
	slog.Debug("Read parquet catalog", "rows", len(records))
	return records, nil
}

// PaletteRecords turns a palette back into catalog records, so a reduced
// palette can be saved and reused as a catalog.
func PaletteRecords(palette cs.Palette) []cs.CatalogRecord {
	out := make([]cs.CatalogRecord, len(palette))
	for i, e := range palette {
		out[i] = cs.CatalogRecord{Hex: strings.ToUpper(e.RGB.Hex()), ID: e.ID, Name: e.Name}
	}
	return out
}

// SaveCatalog writes records in the format implied by the file extension.
func SaveCatalog(path string, records []cs.CatalogRecord) error {
	format, err := CatalogFormat(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create catalog file: %w", err)
	}
	defer f.Close()

	switch format {
	case "json":
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		err = enc.Encode(records)
	case "yaml":
		enc := yaml.NewEncoder(f)
		enc.SetIndent(2)
		if err = enc.Encode(records); err == nil {
			err = enc.Close()
		}
	case "parquet":
		w := parquet.NewGenericWriter[cs.CatalogRecord](f)
		if _, err = w.Write(records); err == nil {
			err = w.Close()
		}
	}
	if err != nil {
		return fmt.Errorf("failed to write %s catalog: %w", format, err)
	}
	return f.Close()
}
