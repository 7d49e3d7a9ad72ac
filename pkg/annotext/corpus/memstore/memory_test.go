package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/cognicore/annotext/pkg/annotext/align"
	"github.com/cognicore/annotext/pkg/annotext/corpus"
	"github.com/cognicore/annotext/pkg/annotext/internalerr"
	"github.com/cognicore/annotext/pkg/annotext/markup"
	"github.com/cognicore/annotext/pkg/annotext/token"
)

func doc(path string) corpus.Document {
	return corpus.Document{
		SourcePath: path,
		Text:       "Paris est beau ",
		Tokens: []token.Token{
			{Index: 0, Start: 0, End: 5},
			{Index: 1, Start: 6, End: 9},
			{Index: 2, Start: 10, End: 14},
		},
		Spans: []align.EntitySpan{{Start: 0, End: 1, Category: markup.Location}},
	}
}

func TestAppendLoadSummary(t *testing.T) {
	ctx := context.Background()
	st := New()
	defer st.Close()

	if err := st.Append(ctx, doc("a.xml"), doc("b.xml")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	c, err := st.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Len() != 2 || !c.Contains("a.xml") || !c.Contains("b.xml") {
		t.Errorf("loaded corpus wrong: len=%d", c.Len())
	}

	sum, err := st.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.Docs != 2 || sum.Tokens != 6 || sum.Entities != 2 {
		t.Errorf("summary = %+v", sum)
	}
}

func TestDuplicateBatchAtomic(t *testing.T) {
	ctx := context.Background()
	st := New()

	if err := st.Append(ctx, doc("a.xml")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	err := st.Append(ctx, doc("b.xml"), doc("a.xml"))
	if !errors.Is(err, internalerr.ErrDuplicatePath) {
		t.Fatalf("err = %v, want ErrDuplicatePath", err)
	}

	paths, _ := st.Paths(ctx)
	if len(paths) != 1 {
		t.Errorf("partial batch persisted: %v", paths)
	}
}

func TestLoadReturnsCopies(t *testing.T) {
	ctx := context.Background()
	st := New()
	st.Append(ctx, doc("a.xml"))

	c, _ := st.Load(ctx)
	c.Docs()[0].Tokens[0] = token.Token{Index: 99, Start: 99, End: 100}

	c2, _ := st.Load(ctx)
	if c2.Docs()[0].Tokens[0].Index == 99 {
		t.Error("mutating a loaded corpus leaked into the store")
	}
}
