// Package sample picks which source files a batch run will process.
package sample

import (
	"io/fs"
	"math/rand"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// List walks root and returns every markup file path, sorted. Extensions
// are matched case-insensitively against .xml.
func List(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".xml") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Select returns at most n files not yet in processed, chosen uniformly at
// random. n <= 0 means "all remaining". A nil rng gets a time-seeded one;
// tests pass a seeded source for determinism.
func Select(files []string, processed map[string]struct{}, n int, rng *rand.Rand) []string {
	var remaining []string
	for _, f := range files {
		if _, done := processed[f]; done {
			continue
		}
		remaining = append(remaining, f)
	}
	if n <= 0 || n >= len(remaining) {
		return remaining
	}

	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	rng.Shuffle(len(remaining), func(i, j int) {
		remaining[i], remaining[j] = remaining[j], remaining[i]
	})
	picked := remaining[:n]
	sort.Strings(picked)
	return picked
}
