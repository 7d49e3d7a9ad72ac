package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/cognicore/annotext/pkg/annotext/align"
	"github.com/cognicore/annotext/pkg/annotext/corpus"
	"github.com/cognicore/annotext/pkg/annotext/internalerr"
	"github.com/cognicore/annotext/pkg/annotext/markup"
	"github.com/cognicore/annotext/pkg/annotext/token"
)

func openTestStore(t *testing.T) corpus.Store {
	t.Helper()
	ctx := context.Background()
	st, err := Open(ctx, filepath.Join(t.TempDir(), "corpus.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func sampleDocument(path string) corpus.Document {
	return corpus.Document{
		SourcePath: path,
		Text:       "Jean Valjean entra dans Digne ",
		Tokens: []token.Token{
			{Index: 0, Start: 0, End: 4},
			{Index: 1, Start: 5, End: 12},
			{Index: 2, Start: 13, End: 18},
			{Index: 3, Start: 19, End: 23},
			{Index: 4, Start: 24, End: 29},
		},
		Spans: []align.EntitySpan{
			{Start: 0, End: 2, Category: markup.Person},
			{Start: 4, End: 5, Category: markup.Location},
		},
		Meta: corpus.Metadata{Author: "Victor Hugo", Title: "Les Misérables", Date: "1862"},
	}
}

func TestEmptyStore(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	c, err := st.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("fresh store loaded %d docs", c.Len())
	}

	sum, err := st.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum != (corpus.Summary{}) {
		t.Errorf("summary = %+v, want zeros", sum)
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	want := sampleDocument("corpus/a.xml")
	if err := st.Append(ctx, want); err != nil {
		t.Fatalf("Append: %v", err)
	}

	c, err := st.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("loaded %d docs", c.Len())
	}

	got := c.Docs()[0]
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}

	sum, err := st.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.Docs != 1 || sum.Tokens != 5 || sum.Entities != 2 {
		t.Errorf("summary = %+v", sum)
	}
	if csum := c.Summary(); csum != sum {
		t.Errorf("store summary %+v != corpus summary %+v", sum, csum)
	}
}

func TestPaths(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	if err := st.Append(ctx, sampleDocument("a.xml"), sampleDocument("b.xml")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	paths, err := st.Paths(ctx)
	if err != nil {
		t.Fatalf("Paths: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("paths = %v", paths)
	}
	for _, p := range []string{"a.xml", "b.xml"} {
		if _, ok := paths[p]; !ok {
			t.Errorf("missing path %s", p)
		}
	}
}

func TestDuplicateAppendRejectedWhole(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	if err := st.Append(ctx, sampleDocument("a.xml")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	// One duplicate poisons the whole batch: nothing from it may land.
	err := st.Append(ctx, sampleDocument("b.xml"), sampleDocument("a.xml"))
	if !errors.Is(err, internalerr.ErrDuplicatePath) {
		t.Fatalf("err = %v, want ErrDuplicatePath", err)
	}

	paths, err := st.Paths(ctx)
	if err != nil {
		t.Fatalf("Paths: %v", err)
	}
	if _, ok := paths["b.xml"]; ok {
		t.Error("partial batch was persisted")
	}
	if len(paths) != 1 {
		t.Errorf("paths = %v", paths)
	}
}

func TestReopenPersists(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "corpus.db")

	st, err := Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := st.Append(ctx, sampleDocument("a.xml")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	st2, err := Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer st2.Close()

	c, err := st2.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Len() != 1 || !c.Contains("a.xml") {
		t.Errorf("reopened store lost data: len=%d", c.Len())
	}
}

func TestAppendNothing(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	if err := st.Append(ctx); err != nil {
		t.Errorf("empty append should be a no-op, got %v", err)
	}
}
