// corpus-stats prints a human-readable summary of a corpus store.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sort"

	"github.com/cognicore/annotext/pkg/annotext/corpus/sqlite"
)

func main() {
	var (
		storePath = flag.String("store", "", "Corpus store path (required)")
		verbose   = flag.Bool("docs", false, "List every document")
	)
	flag.Parse()

	if *storePath == "" {
		log.Fatal("--store required")
	}

	ctx := context.Background()

	store, err := sqlite.Open(ctx, *storePath)
	if err != nil {
		log.Fatal("Failed to open store:", err)
	}
	defer store.Close()

	c, err := store.Load(ctx)
	if err != nil {
		log.Fatal("Failed to load corpus:", err)
	}

	sum := c.Summary()
	fmt.Printf("documents: %d\n", sum.Docs)
	fmt.Printf("tokens:    %d\n", sum.Tokens)
	fmt.Printf("entities:  %d\n", sum.Entities)

	counts := c.CategoryCounts()
	cats := make([]string, 0, len(counts))
	byName := make(map[string]int, len(counts))
	for cat, n := range counts {
		cats = append(cats, cat.String())
		byName[cat.String()] = n
	}
	sort.Strings(cats)
	for _, name := range cats {
		fmt.Printf("  %-9s %d\n", name, byName[name])
	}

	if *verbose {
		fmt.Println()
		for _, d := range c.Docs() {
			fmt.Printf("%s  tokens=%d entities=%d  %q (%s, %s)\n",
				d.SourcePath, len(d.Tokens), len(d.Spans), d.Meta.Title, d.Meta.Author, d.Meta.Date)
		}
	}
}
