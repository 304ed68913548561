package properties

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ScanFunc reads a document and raises events.
type ScanFunc func(ctx context.Context, r io.Reader, l Listener) error

// Formats maps format names to scanners.
var Formats = map[string]ScanFunc{
	"properties": Scan,
	"yaml":       ScanYAML,
}

// ScannerFor returns the scanner for the named format.
func ScannerFor(format string) (ScanFunc, error) {
	f, have := Formats[format]
	if !have {
		return nil, fmt.Errorf("unknown format %q", format)
	}
	return f, nil
}

// FormatOf guesses a format from a filename, a URL path, or a media
// type.  The default is "properties".
func FormatOf(s string) string {
	s = strings.ToLower(s)
	if strings.Contains(s, "yaml") {
		return "yaml"
	}
	switch filepath.Ext(s) {
	case ".yml":
		return "yaml"
	}
	return "properties"
}
