package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/dirsnap/dsnap/analysis"
	"github.com/ZanzyTHEbar/dirsnap/dsnap/trees"
)

// Format identifies an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatHTML Format = "html"
)

// ErrUnsupportedFormat rejects an export request before anything is written.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat normalizes a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatHTML:
		return FormatHTML, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnsupportedFormat)
}

// Export renders the tree to w in the given format. summary may be nil; only
// the HTML renderer consumes it. Unlike the builder's skip-and-continue
// policy, exporters fail fast on the first error.
func Export(tree *trees.DirectoryTree, summary *analysis.Summary, format Format, w io.Writer) error {
	switch format {
	case FormatJSON:
		return writeJSON(tree, w)
	case FormatCSV:
		return writeCSV(tree, w)
	case FormatHTML:
		return writeHTML(tree, summary, w)
	}
	return fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
}

// ExportFile renders the tree to a file. The output is staged in memory so
// an encoding failure leaves no partial file behind.
func ExportFile(tree *trees.DirectoryTree, summary *analysis.Summary, format Format, path string) error {
	var buf bytes.Buffer
	if err := Export(tree, summary, format, &buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}
