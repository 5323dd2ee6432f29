package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"isekai-quiz-service/internal/domain"
)

// CatalogLoader reads the question catalog from a JSON file on disk.
type CatalogLoader struct {
	path string
}

func NewCatalogLoader(path string) *CatalogLoader {
	return &CatalogLoader{path: path}
}

func (l *CatalogLoader) LoadCatalog(context.Context) (domain.Catalog, error) {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", l.path, err)
	}
	var catalog domain.Catalog
	if err := json.Unmarshal(raw, &catalog); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", l.path, err)
	}
	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", l.path, err)
	}
	return catalog, nil
}
