package markup

import (
	"strings"

	"github.com/antchfx/xmlquery"
)

// Metadata holds the bibliographic fields extracted from a document header.
// Missing fields stay empty, never an error.
type Metadata struct {
	Author string
	Title  string
	Date   string
}

// ExtractMetadata reads author, title and date from the document header.
func ExtractMetadata(doc *Document) Metadata {
	return Metadata{
		Author: headerField(doc, "//teiHeader//author"),
		Title:  headerField(doc, "//teiHeader//titleStmt/title"),
		Date:   headerField(doc, "//teiHeader//date"),
	}
}

func headerField(doc *Document, expr string) string {
	node := xmlquery.FindOne(doc.root, expr)
	if node == nil {
		return ""
	}
	return strings.TrimSpace(node.InnerText())
}
