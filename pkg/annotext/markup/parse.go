package markup

import (
	"fmt"
	"io"
	"os"

	"github.com/antchfx/xmlquery"
	"golang.org/x/net/html/charset"
)

// Document wraps a parsed markup tree.
type Document struct {
	root *xmlquery.Node
}

// Parse reads a markup document from r. Parse failures are reported as
// ErrMalformedMarkup so callers can skip the file without aborting a batch.
func Parse(r io.Reader) (*Document, error) {
	root, err := xmlquery.ParseWithOptions(r, xmlquery.ParserOptions{
		Decoder: &xmlquery.DecoderOptions{
			// Source files declare legacy encodings (latin-1 and friends).
			CharsetReader: charset.NewReaderLabel,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}
	return &Document{root: root}, nil
}

// ParseFile parses the markup document at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
