package sample

import (
	"math/rand"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFiles(t *testing.T, names ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, name := range names {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("<TEI/>"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestListFindsMarkupFiles(t *testing.T) {
	root := writeFiles(t, "a.xml", "sub/b.xml", "sub/deep/c.XML", "notes.txt", "README.md")

	files, err := List(root)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("files = %v", files)
	}
	for _, f := range files {
		if filepath.Ext(f) == ".txt" || filepath.Ext(f) == ".md" {
			t.Errorf("non-markup file listed: %s", f)
		}
	}
}

func TestSelectComplement(t *testing.T) {
	files := []string{"a.xml", "b.xml", "c.xml"}
	processed := map[string]struct{}{"b.xml": {}}

	got := Select(files, processed, 0, nil)
	if !reflect.DeepEqual(got, []string{"a.xml", "c.xml"}) {
		t.Errorf("Select = %v", got)
	}
}

func TestSelectAllProcessed(t *testing.T) {
	files := []string{"a.xml", "b.xml"}
	processed := map[string]struct{}{"a.xml": {}, "b.xml": {}}

	if got := Select(files, processed, 10, nil); len(got) != 0 {
		t.Errorf("Select = %v, want none", got)
	}
}

func TestSelectSampleSize(t *testing.T) {
	files := []string{"a.xml", "b.xml", "c.xml", "d.xml", "e.xml"}

	got := Select(files, nil, 2, rand.New(rand.NewSource(1)))
	if len(got) != 2 {
		t.Fatalf("Select = %v, want 2 files", got)
	}
	seen := make(map[string]struct{})
	for _, f := range got {
		seen[f] = struct{}{}
	}
	if len(seen) != 2 {
		t.Errorf("duplicate picks: %v", got)
	}
}

func TestSelectDeterministicWithSeed(t *testing.T) {
	files := []string{"a.xml", "b.xml", "c.xml", "d.xml", "e.xml"}

	first := Select(append([]string(nil), files...), nil, 3, rand.New(rand.NewSource(42)))
	second := Select(append([]string(nil), files...), nil, 3, rand.New(rand.NewSource(42)))
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same seed gave %v then %v", first, second)
	}
}
