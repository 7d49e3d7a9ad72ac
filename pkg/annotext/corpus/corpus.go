// Package corpus holds the assembled annotated documents and the store
// boundary that persists them.
package corpus

import (
	"context"
	"fmt"

	"github.com/cognicore/annotext/pkg/annotext/align"
	"github.com/cognicore/annotext/pkg/annotext/internalerr"
	"github.com/cognicore/annotext/pkg/annotext/markup"
	"github.com/cognicore/annotext/pkg/annotext/token"
)

// Metadata is the bibliographic record attached to a document. Set once at
// assembly, never mutated afterward.
type Metadata struct {
	Author string
	Title  string
	Date   string
}

// Document is one fully processed source file. Owned by the corpus once
// appended; immutable thereafter.
type Document struct {
	SourcePath string
	Text       string
	Tokens     []token.Token
	Spans      []align.EntitySpan
	Meta       Metadata
}

// NewDocument assembles a document, checking that every span's token
// indices fall inside [0, len(tokens)). A violation is a projection/merge
// defect and reports ErrAlignment, which aborts the whole run.
func NewDocument(path, text string, tokens []token.Token, spans []align.EntitySpan, meta Metadata) (Document, error) {
	for _, sp := range spans {
		if sp.Start < 0 || sp.End > len(tokens) || sp.Start >= sp.End {
			return Document{}, fmt.Errorf("%w: span [%d,%d) over %d tokens in %s",
				internalerr.ErrAlignment, sp.Start, sp.End, len(tokens), path)
		}
	}
	return Document{
		SourcePath: path,
		Text:       text,
		Tokens:     tokens,
		Spans:      spans,
		Meta:       meta,
	}, nil
}

// Summary aggregates corpus-wide counts.
type Summary struct {
	Docs     int
	Tokens   int
	Entities int
}

// Corpus is an ordered, append-only collection of documents keyed by source
// path. No two documents ever share a path.
type Corpus struct {
	docs   []Document
	byPath map[string]int
}

// New creates an empty corpus.
func New() *Corpus {
	return &Corpus{byPath: make(map[string]int)}
}

// Len returns the number of documents.
func (c *Corpus) Len() int { return len(c.docs) }

// Contains reports whether a document with the given source path is present.
func (c *Corpus) Contains(path string) bool {
	_, ok := c.byPath[path]
	return ok
}

// Append adds a document. The path-uniqueness check runs before any
// mutation, so a failed append leaves the corpus untouched.
func (c *Corpus) Append(doc Document) error {
	if _, ok := c.byPath[doc.SourcePath]; ok {
		return fmt.Errorf("%w: %s", internalerr.ErrDuplicatePath, doc.SourcePath)
	}
	c.byPath[doc.SourcePath] = len(c.docs)
	c.docs = append(c.docs, doc)
	return nil
}

// Docs returns the documents in append order.
func (c *Corpus) Docs() []Document { return c.docs }

// Paths returns the set of stored source paths.
func (c *Corpus) Paths() map[string]struct{} {
	set := make(map[string]struct{}, len(c.docs))
	for p := range c.byPath {
		set[p] = struct{}{}
	}
	return set
}

// Summary sums document, token and entity-span counts.
func (c *Corpus) Summary() Summary {
	var s Summary
	s.Docs = len(c.docs)
	for _, d := range c.docs {
		s.Tokens += len(d.Tokens)
		s.Entities += len(d.Spans)
	}
	return s
}

// CategoryCounts tallies entity spans per category, for reporting.
func (c *Corpus) CategoryCounts() map[markup.Category]int {
	counts := make(map[markup.Category]int)
	for _, d := range c.docs {
		for _, sp := range d.Spans {
			counts[sp.Category]++
		}
	}
	return counts
}

// Store persists the corpus. Append is transactional: either every document
// in the call becomes durable or none does, so an interrupted run leaves the
// store at its previous state or augmented by whole documents only.
type Store interface {
	Close() error

	// Load reconstructs the full corpus, or an empty one when nothing has
	// been persisted yet (not an error).
	Load(ctx context.Context) (*Corpus, error)

	// Paths answers membership without loading document bodies.
	Paths(ctx context.Context) (map[string]struct{}, error)

	// Append durably adds whole documents in one transaction.
	// ErrDuplicatePath when any path is already stored.
	Append(ctx context.Context, docs ...Document) error

	// Summary aggregates counts over the stored corpus.
	Summary(ctx context.Context) (Summary, error)
}
