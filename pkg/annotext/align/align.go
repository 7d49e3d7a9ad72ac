// Package align maps character-offset annotations onto a tokenizer's
// segmentation and merges labeled tokens into entity spans.
package align

import (
	"github.com/cognicore/annotext/pkg/annotext/markup"
	"github.com/cognicore/annotext/pkg/annotext/token"
)

// EntitySpan is a token-index range [Start,End) carrying an entity category,
// the token-space equivalent of a markup.TaggedInterval.
type EntitySpan struct {
	Start    int
	End      int
	Category markup.Category
}

// Project assigns each token the category of the interval that strictly
// contains it, or markup.None. A token straddling an interval boundary stays
// unlabeled; partial overlap is tokenizer/markup misalignment, not an
// entity. Both inputs must be sorted by offset. Single merged sweep,
// O(tokens + intervals).
func Project(tokens []token.Token, intervals []markup.TaggedInterval) []markup.Category {
	labels := make([]markup.Category, len(tokens))
	j := 0
	for i, tok := range tokens {
		// Intervals ending at or before this token's start can never
		// contain it or any later token.
		for j < len(intervals) && intervals[j].End <= tok.Start {
			j++
		}
		if j == len(intervals) || intervals[j].Start > tok.End {
			continue
		}
		if intervals[j].Start <= tok.Start && intervals[j].End >= tok.End {
			labels[i] = intervals[j].Category
		}
	}
	return labels
}

// Merge collapses maximal runs of same-category labels into entity spans.
// A two-state machine over the label sequence: outside any entity, or
// inside one with a current category and start index.
func Merge(labels []markup.Category) []EntitySpan {
	var spans []EntitySpan
	current := markup.None
	start := 0
	for i, l := range labels {
		switch {
		case current == markup.None && l == markup.None:
			// outside, stay outside
		case current == markup.None:
			current, start = l, i
		case l == markup.None:
			spans = append(spans, EntitySpan{Start: start, End: i, Category: current})
			current = markup.None
		case l != current:
			spans = append(spans, EntitySpan{Start: start, End: i, Category: current})
			current, start = l, i
		}
	}
	if current != markup.None {
		spans = append(spans, EntitySpan{Start: start, End: len(labels), Category: current})
	}
	return spans
}
