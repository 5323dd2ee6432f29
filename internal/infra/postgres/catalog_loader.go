package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"isekai-quiz-service/internal/domain"

	"github.com/jackc/pgx/v4/pgxpool"
)

// CatalogLoader loads catalog JSONB from Postgres.
type CatalogLoader struct {
	pool      *pgxpool.Pool
	catalogID string
}

func NewCatalogLoader(pool *pgxpool.Pool, catalogID string) *CatalogLoader {
	return &CatalogLoader{pool: pool, catalogID: catalogID}
}

func (l *CatalogLoader) LoadCatalog(ctx context.Context) (domain.Catalog, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM catalogs WHERE id=$1`, l.catalogID).Scan(&raw)
	if err != nil {
		return nil, fmt.Errorf("load catalog %q: %w", l.catalogID, err)
	}
	var catalog domain.Catalog
	if err := json.Unmarshal(raw, &catalog); err != nil {
		return nil, fmt.Errorf("unmarshal catalog %q: %w", l.catalogID, err)
	}
	return catalog, nil
}
