package crossstitch

import "fmt"

// CatalogParseError reports a malformed catalog record.
type CatalogParseError struct {
	Index int    // position of the record in the catalog source
	Field string // "hex", "id" or "name"
	Value string
	Err   error
}

func (e *CatalogParseError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("catalog record %d: missing %s", e.Index, e.Field)
	}
	if e.Err != nil {
		return fmt.Sprintf("catalog record %d: invalid %s %q: %v", e.Index, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("catalog record %d: invalid %s %q", e.Index, e.Field, e.Value)
}

func (e *CatalogParseError) Unwrap() error { return e.Err }

// InvalidReductionError is returned when the requested color count cannot be
// produced from the catalog.
type InvalidReductionError struct {
	K         int
	Available int
}

func (e *InvalidReductionError) Error() string {
	if e.K < 0 {
		return fmt.Sprintf("invalid color count %d: must not be negative", e.K)
	}
	return fmt.Sprintf("cannot reduce %d catalog colors to %d", e.Available, e.K)
}

// ImageDecodeError wraps a failure to decode the source image.
type ImageDecodeError struct {
	Err error
}

func (e *ImageDecodeError) Error() string {
	return fmt.Sprintf("failed to decode image: %v", e.Err)
}

func (e *ImageDecodeError) Unwrap() error { return e.Err }

// InvalidSizeError is returned when the requested or computed grid size is
// degenerate.
type InvalidSizeError struct {
	Width  int
	Height int
}

func (e *InvalidSizeError) Error() string {
	return fmt.Sprintf("invalid pattern size %dx%d: width and height must be positive", e.Width, e.Height)
}
