// Package annotext builds a machine-learning-ready annotated corpus from
// semi-structured markup documents: flatten, tokenize, project annotation
// offsets onto tokens, merge labeled tokens into entity spans, accumulate
// into a resumable store.
package annotext

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/phuslu/log"

	"github.com/cognicore/annotext/pkg/annotext/align"
	"github.com/cognicore/annotext/pkg/annotext/corpus"
	"github.com/cognicore/annotext/pkg/annotext/internalerr"
	"github.com/cognicore/annotext/pkg/annotext/markup"
	"github.com/cognicore/annotext/pkg/annotext/sample"
	"github.com/cognicore/annotext/pkg/annotext/token"
)

// Builder is the corpus-building facade.
type Builder struct {
	store   corpus.Store
	toker   token.Tokenizer
	rules   markup.Rules
	workers int
	logger  *log.Logger
}

// Options configures a Builder instance.
type Options struct {
	Store     corpus.Store
	Tokenizer token.Tokenizer
	Rules     markup.Rules
	Workers   int
	Logger    *log.Logger
}

// New creates a Builder with the given dependencies.
func New(opts Options) *Builder {
	b := &Builder{
		store:   opts.Store,
		toker:   opts.Tokenizer,
		rules:   opts.Rules,
		workers: opts.Workers,
		logger:  opts.Logger,
	}
	if b.toker == nil {
		b.toker = token.Segmenter{}
	}
	if b.rules.NormalizationTag == "" {
		b.rules = markup.DefaultRules()
	}
	if b.workers <= 0 {
		b.workers = 1
	}
	if b.logger == nil {
		b.logger = &log.DefaultLogger
	}
	return b
}

// Close cleanly shuts down the Builder.
func (b *Builder) Close() error {
	return b.store.Close()
}

// ProcessFile runs the per-document transform: parse, flatten, tokenize,
// project, merge, assemble. It is pure with respect to the store and safe
// to call from concurrent workers.
func (b *Builder) ProcessFile(ctx context.Context, path string) (corpus.Document, error) {
	doc, err := markup.ParseFile(path)
	if err != nil {
		return corpus.Document{}, err
	}

	text, intervals := markup.Flatten(doc, b.rules)
	if len(text) == 0 {
		return corpus.Document{}, fmt.Errorf("%w: %s", internalerr.ErrEmptyDocument, path)
	}

	tokens, err := b.toker.Tokenize(ctx, text)
	if err != nil {
		return corpus.Document{}, fmt.Errorf("tokenize %s: %w", path, err)
	}

	labels := align.Project(tokens, intervals)
	spans := align.Merge(labels)

	meta := markup.ExtractMetadata(doc)
	return corpus.NewDocument(path, text, tokens, spans, corpus.Metadata{
		Author: meta.Author,
		Title:  meta.Title,
		Date:   meta.Date,
	})
}

// RunRequest describes one batch invocation.
type RunRequest struct {
	Root       string
	SampleSize int

	// Seed fixes the sampling order; zero means time-seeded.
	Seed int64
}

// RunResult summarizes a batch run.
type RunResult struct {
	RunID      string
	Candidates int
	Processed  int
	Skipped    int
	Summary    corpus.Summary
}

type outcome struct {
	path string
	doc  corpus.Document
	err  error
}

// Run executes a resumable batch: load the processed path set, restrict the
// candidates to its complement, transform them on a bounded worker pool,
// then append the whole batch in one store transaction. Malformed or empty
// documents are skipped and stay eligible for a future run; alignment,
// duplicate-path and persistence errors abort before anything is appended.
// Re-running the same request against the same store is a no-op.
func (b *Builder) Run(ctx context.Context, req RunRequest) (RunResult, error) {
	res := RunResult{RunID: ulid.Make().String()}
	logger := b.logger

	processed, err := b.store.Paths(ctx)
	if err != nil {
		return res, err
	}

	files, err := sample.List(req.Root)
	if err != nil {
		return res, err
	}

	var rng *rand.Rand
	if req.Seed != 0 {
		rng = rand.New(rand.NewSource(req.Seed))
	}
	picked := sample.Select(files, processed, req.SampleSize, rng)
	res.Candidates = len(picked)

	logger.Info().Str("run", res.RunID).Int("known", len(processed)).
		Int("candidates", len(picked)).Msg("batch started")

	docs, skipped, err := b.transformAll(ctx, picked)
	res.Skipped = skipped
	if err != nil {
		return res, err
	}

	// Deterministic store order regardless of worker scheduling.
	sort.Slice(docs, func(i, j int) bool { return docs[i].SourcePath < docs[j].SourcePath })

	if err := b.store.Append(ctx, docs...); err != nil {
		return res, err
	}
	res.Processed = len(docs)

	if res.Summary, err = b.store.Summary(ctx); err != nil {
		return res, err
	}

	logger.Info().Str("run", res.RunID).Int("processed", res.Processed).
		Int("skipped", res.Skipped).Int("corpus_docs", res.Summary.Docs).
		Msg("batch finished")
	return res, nil
}

// transformAll fans the candidate paths out to the worker pool. Tokenization
// dominates the per-document cost, so the document is the unit of parallel
// work; collection happens on this goroutine only.
func (b *Builder) transformAll(ctx context.Context, paths []string) ([]corpus.Document, int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan string)
	results := make(chan outcome)

	var wg sync.WaitGroup
	for w := 0; w < b.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				doc, err := b.ProcessFile(ctx, path)
				select {
				case results <- outcome{path: path, doc: doc, err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, p := range paths {
			select {
			case jobs <- p:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var (
		docs    []corpus.Document
		skipped int
		fatal   error
	)
	for oc := range results {
		if fatal != nil {
			continue // drain after cancel
		}
		switch {
		case oc.err == nil:
			docs = append(docs, oc.doc)
		case errors.Is(oc.err, internalerr.ErrMalformedMarkup),
			errors.Is(oc.err, internalerr.ErrEmptyDocument):
			skipped++
			b.logger.Warn().Str("path", oc.path).Err(oc.err).Msg("document skipped")
		default:
			fatal = oc.err
			cancel()
		}
	}
	if fatal != nil {
		return nil, skipped, fatal
	}
	if err := ctx.Err(); err != nil {
		return nil, skipped, err
	}
	return docs, skipped, nil
}
