package markup

import (
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/cognicore/annotext/pkg/annotext/internalerr"
)

var errMalformed = internalerr.ErrMalformedMarkup

// TaggedInterval is a byte-offset range [Start,End) over a document's
// flattened text carrying the entity category of the annotation element it
// came from. Intervals are emitted in text order and do not overlap.
type TaggedInterval struct {
	Start    int
	End      int
	Category Category
}

// Rules controls which elements the flattener considers.
type Rules struct {
	// NormalizationTag names the wrapper element whose content counts as
	// cleaned text. Content outside these wrappers is ignored.
	NormalizationTag string
}

// DefaultRules matches the corpus convention: regularized text lives in
// <reg> wrappers.
func DefaultRules() Rules {
	return Rules{NormalizationTag: "reg"}
}

// Flatten walks the document's normalization units in order and produces the
// flattened text plus the tagged intervals of every recognized annotation
// element. Annotation elements with empty text yield no interval: a
// zero-length interval cannot align to any token. A single space is appended
// after each unit so adjacent units never merge into one token.
func Flatten(doc *Document, rules Rules) (string, []TaggedInterval) {
	if rules.NormalizationTag == "" {
		rules = DefaultRules()
	}

	var (
		buf       strings.Builder
		intervals []TaggedInterval
	)
	for _, unit := range xmlquery.Find(doc.root, "//"+rules.NormalizationTag) {
		for child := unit.FirstChild; child != nil; child = child.NextSibling {
			switch child.Type {
			case xmlquery.TextNode, xmlquery.CharDataNode:
				buf.WriteString(child.Data)
			case xmlquery.ElementNode:
				cat, ok := CategoryForTag(child.Data)
				if !ok {
					// Nested non-annotation markup contributes its
					// text but no label.
					buf.WriteString(child.InnerText())
					continue
				}
				start := buf.Len()
				buf.WriteString(child.InnerText())
				end := buf.Len()
				if end > start {
					intervals = append(intervals, TaggedInterval{
						Start:    start,
						End:      end,
						Category: cat,
					})
				}
			}
		}
		buf.WriteString(" ")
	}
	return buf.String(), intervals
}
