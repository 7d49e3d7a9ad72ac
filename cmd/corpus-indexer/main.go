// corpus-indexer runs one resumable batch: it samples unprocessed markup
// files under the corpus root, transforms them, and appends the results to
// the persistent corpus store.
package main

import (
	"context"
	"flag"

	"github.com/phuslu/log"

	"github.com/cognicore/annotext/pkg/annotext"
	"github.com/cognicore/annotext/pkg/annotext/config"
	"github.com/cognicore/annotext/pkg/annotext/corpus/sqlite"
	"github.com/cognicore/annotext/pkg/annotext/markup"
	"github.com/cognicore/annotext/pkg/annotext/token"
	"github.com/cognicore/annotext/pkg/annotext/token/remote"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file (optional)")
		root       = flag.String("root", "", "Corpus root directory")
		storePath  = flag.String("store", "", "Corpus store path")
		sampleSize = flag.Int("sample", 0, "Max new documents this run (0 = config default)")
		workers    = flag.Int("workers", 0, "Worker pool size (0 = config default)")
		seed       = flag.Int64("seed", 0, "Sampling seed (0 = time-seeded)")
		tokenizer  = flag.String("tokenizer", "", "External tokenizer URL (empty = built-in)")
	)
	flag.Parse()

	logger := log.Logger{Level: log.InfoLevel, Writer: &log.ConsoleWriter{ColorOutput: true}}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			logger.Fatal().Err(err).Msg("load config")
		}
	}

	// Flags override the config file.
	if *root != "" {
		cfg.CorpusRoot = *root
	}
	if *storePath != "" {
		cfg.StorePath = *storePath
	}
	if *sampleSize > 0 {
		cfg.SampleSize = *sampleSize
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *tokenizer != "" {
		cfg.TokenizerURL = *tokenizer
	}

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()

	store, err := sqlite.Open(ctx, cfg.StorePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("open store")
	}

	var toker token.Tokenizer = token.Segmenter{}
	if cfg.TokenizerURL != "" {
		toker = &remote.Client{BaseURL: cfg.TokenizerURL}
	}

	builder := annotext.New(annotext.Options{
		Store:     store,
		Tokenizer: toker,
		Rules:     markup.Rules{NormalizationTag: cfg.NormalizationTag},
		Workers:   cfg.Workers,
		Logger:    &logger,
	})
	defer builder.Close()

	res, err := builder.Run(ctx, annotext.RunRequest{
		Root:       cfg.CorpusRoot,
		SampleSize: cfg.SampleSize,
		Seed:       *seed,
	})
	if err != nil {
		logger.Fatal().Err(err).Str("run", res.RunID).Msg("batch aborted, store unchanged")
	}

	logger.Info().Str("run", res.RunID).
		Int("processed", res.Processed).
		Int("skipped", res.Skipped).
		Int("corpus_docs", res.Summary.Docs).
		Int("corpus_tokens", res.Summary.Tokens).
		Int("corpus_entities", res.Summary.Entities).
		Msg("corpus updated")
}
