package file

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"isekai-quiz-service/internal/domain"
)

func TestRatingsAggregation(t *testing.T) {
	store := NewRatingsStore(filepath.Join(t.TempDir(), "ratings.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	stats, err := store.Add(5)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if stats.Count != 1 || stats.Avg != 5 {
		t.Fatalf("unexpected stats after first rating: %+v", stats)
	}

	stats, err = store.Add(4)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if stats.Count != 2 || stats.Avg != 4.5 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.Distribution["5"] != 1 || stats.Distribution["4"] != 1 || stats.Distribution["1"] != 0 {
		t.Fatalf("unexpected distribution: %+v", stats.Distribution)
	}

	reread, err := store.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if reread.Avg != 4.5 || reread.Count != 2 {
		t.Fatalf("stats not persisted: %+v", reread)
	}
}

func TestRatingsValidation(t *testing.T) {
	store := NewRatingsStore(filepath.Join(t.TempDir(), "ratings.json"))
	for _, rating := range []int{0, -1, 6} {
		if _, err := store.Add(rating); err != domain.ErrInvalidRating {
			t.Fatalf("rating %d: expected ErrInvalidRating, got %v", rating, err)
		}
	}
}

func TestStatsWithoutFile(t *testing.T) {
	store := NewRatingsStore(filepath.Join(t.TempDir(), "ratings.json"))
	if _, err := store.Stats(); err != domain.ErrNoRatings {
		t.Fatalf("expected ErrNoRatings, got %v", err)
	}
}

func TestInitRecreatesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratings.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	store := NewRatingsStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Count != 0 {
		t.Fatalf("expected fresh stats, got %+v", stats)
	}
}

func TestFileKeepsLegacyLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratings.json")
	store := NewRatingsStore(path)
	if _, err := store.Add(3); err != nil {
		t.Fatalf("add: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var data map[string]json.RawMessage
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := data["ratings"]; !ok {
		t.Fatal("file must keep the empty ratings array for legacy readers")
	}
	if _, ok := data["stats"]; !ok {
		t.Fatal("file must carry a stats object")
	}
}
