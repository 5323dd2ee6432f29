package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const catalogJSON = `[
  {"id": "intro", "text": "Welcome", "options": [{"text": "Hi", "response": "Hello"}]},
  {"id": "intro2", "text": "Ready?", "options": [{"text": "Yes"}]},
  {"id": "q1", "text": "Crowds?", "options": [
    {"text": "Love them", "trait": "E"},
    {"text": "No thanks", "trait": "I"}
  ]}
]`

func TestCatalogLoaderReadsAndValidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.json")
	if err := os.WriteFile(path, []byte(catalogJSON), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	catalog, err := NewCatalogLoader(path).LoadCatalog(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(catalog) != 3 || catalog[2].Options[0].Trait != "E" {
		t.Fatalf("unexpected catalog: %+v", catalog)
	}
}

func TestCatalogLoaderMissingFile(t *testing.T) {
	if _, err := NewCatalogLoader(filepath.Join(t.TempDir(), "nope.json")).LoadCatalog(context.Background()); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestCatalogLoaderRejectsMalformedCatalog(t *testing.T) {
	dir := t.TempDir()

	badJSON := filepath.Join(dir, "bad.json")
	_ = os.WriteFile(badJSON, []byte("{"), 0o644)
	if _, err := NewCatalogLoader(badJSON).LoadCatalog(context.Background()); err == nil {
		t.Fatal("expected error for invalid JSON")
	}

	// Too few entries: a catalog without scoring questions is unusable.
	tooShort := filepath.Join(dir, "short.json")
	_ = os.WriteFile(tooShort, []byte(`[{"id":"intro","text":"Hi","options":[{"text":"x"}]}]`), 0o644)
	if _, err := NewCatalogLoader(tooShort).LoadCatalog(context.Background()); err == nil {
		t.Fatal("expected validation error for short catalog")
	}
}
