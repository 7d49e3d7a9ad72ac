package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/annotext/pkg/annotext/internalerr"
)

// Config holds the batch run settings.
type Config struct {
	CorpusRoot string `yaml:"corpus_root"`
	StorePath  string `yaml:"store_path"`
	SampleSize int    `yaml:"sample_size"`
	Workers    int    `yaml:"workers"`

	// NormalizationTag names the wrapper element carrying cleaned text.
	NormalizationTag string `yaml:"normalization_tag"`

	// TokenizerURL points at an external tokenizer service. Empty means
	// the built-in segmenter.
	TokenizerURL string `yaml:"tokenizer_url"`
}

// Default returns the settings used when no config file is given.
func Default() Config {
	return Config{
		SampleSize:       100,
		Workers:          4,
		NormalizationTag: "reg",
	}
}

// Load reads a YAML config file, applying defaults for absent fields.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = Default().Workers
	}
	if cfg.NormalizationTag == "" {
		cfg.NormalizationTag = Default().NormalizationTag
	}
	return cfg, nil
}

// Validate checks the fields a batch run cannot do without.
func (c Config) Validate() error {
	if c.CorpusRoot == "" {
		return fmt.Errorf("%w: corpus_root required", internalerr.ErrInvalidConfig)
	}
	if c.StorePath == "" {
		return fmt.Errorf("%w: store_path required", internalerr.ErrInvalidConfig)
	}
	return nil
}
