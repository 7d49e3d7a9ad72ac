// Package token defines the tokenizer boundary. Any tokenizer that reports
// per-token byte offsets over the input text is interchangeable here.
package token

import (
	"context"
	"unicode"
)

// Token is one unit of the tokenizer's segmentation. Start and End are byte
// offsets into the flattened text; tokens are non-overlapping and ordered by
// Index and by offset.
type Token struct {
	Index int
	Start int
	End   int
}

// Tokenizer turns flattened text into an ordered token sequence.
type Tokenizer interface {
	Tokenize(ctx context.Context, text string) ([]Token, error)
}

// Segmenter is the built-in offset-preserving tokenizer. A token is a
// maximal run of letters, digits and hyphens. Unlike an indexing tokenizer
// it never lowercases or drops tokens: alignment needs lossless offsets.
type Segmenter struct{}

// Tokenize implements Tokenizer.
func (Segmenter) Tokenize(ctx context.Context, text string) ([]Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var tokens []Token
	start := -1
	for i, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, Token{Index: len(tokens), Start: start, End: i})
			start = -1
		}
	}
	if start >= 0 {
		tokens = append(tokens, Token{Index: len(tokens), Start: start, End: len(text)})
	}
	return tokens, nil
}
