// Package memstore is an in-memory corpus.Store for tests.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/cognicore/annotext/pkg/annotext/align"
	"github.com/cognicore/annotext/pkg/annotext/corpus"
	"github.com/cognicore/annotext/pkg/annotext/internalerr"
	"github.com/cognicore/annotext/pkg/annotext/token"
)

// Store keeps documents in memory with the same transactional semantics as
// the persistent backend: an Append either lands whole or not at all.
type Store struct {
	mu     sync.RWMutex
	docs   []corpus.Document
	byPath map[string]struct{}
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{byPath: make(map[string]struct{})}
}

// Close implements corpus.Store.
func (s *Store) Close() error { return nil }

// Append adds documents, all or nothing.
func (s *Store) Append(ctx context.Context, docs ...corpus.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range docs {
		if _, ok := s.byPath[d.SourcePath]; ok {
			return fmt.Errorf("%w: %s", internalerr.ErrDuplicatePath, d.SourcePath)
		}
	}
	for _, d := range docs {
		s.byPath[d.SourcePath] = struct{}{}
		s.docs = append(s.docs, copyDoc(d))
	}
	return nil
}

// Load rebuilds a corpus from the stored documents.
func (s *Store) Load(ctx context.Context) (*corpus.Corpus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := corpus.New()
	for _, d := range s.docs {
		if err := c.Append(copyDoc(d)); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Paths returns the stored path set.
func (s *Store) Paths(ctx context.Context) (map[string]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := make(map[string]struct{}, len(s.byPath))
	for p := range s.byPath {
		set[p] = struct{}{}
	}
	return set, nil
}

// Summary aggregates counts over the stored documents.
func (s *Store) Summary(ctx context.Context) (corpus.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sum corpus.Summary
	sum.Docs = len(s.docs)
	for _, d := range s.docs {
		sum.Tokens += len(d.Tokens)
		sum.Entities += len(d.Spans)
	}
	return sum, nil
}

func copyDoc(d corpus.Document) corpus.Document {
	out := d
	out.Tokens = append([]token.Token(nil), d.Tokens...)
	out.Spans = append([]align.EntitySpan(nil), d.Spans...)
	return out
}
