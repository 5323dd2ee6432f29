package memory

import (
	"context"
	"testing"
	"time"

	"isekai-quiz-service/internal/domain"
)

func TestCatalogRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		CatalogLoader: NewStaticCatalogLoader(sampleCatalog()),
	}
	repo := NewCatalogRepository(loader, time.Minute)

	if _, err := repo.GetCatalog(context.Background()); err != nil {
		t.Fatalf("get catalog: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetCatalog(context.Background()); err != nil {
		t.Fatalf("get catalog 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestStaticLoaderRejectsEmptyCatalog(t *testing.T) {
	loader := NewStaticCatalogLoader(nil)
	if _, err := loader.LoadCatalog(context.Background()); err != domain.ErrCatalogNotFound {
		t.Fatalf("expected ErrCatalogNotFound, got %v", err)
	}
}

type countingLoader struct {
	CatalogLoader
	calls int
}

func (l *countingLoader) LoadCatalog(ctx context.Context) (domain.Catalog, error) {
	l.calls++
	return l.CatalogLoader.LoadCatalog(ctx)
}

func sampleCatalog() domain.Catalog {
	return domain.Catalog{
		{ID: "intro", Text: "Welcome", Options: []domain.Option{{Text: "Hi"}}},
		{ID: "intro2", Text: "Ready?", Options: []domain.Option{{Text: "Yes"}}},
		{ID: "q1", Text: "Crowds?", Options: []domain.Option{
			{Text: "Love them", Trait: domain.TraitE},
			{Text: "No thanks", Trait: domain.TraitI},
		}},
	}
}
