package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"isekai-quiz-service/internal/domain"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// CatalogLoader fetches the question catalog from a backing store.
type CatalogLoader interface {
	LoadCatalog(ctx context.Context) (domain.Catalog, error)
}

// CatalogRepository caches the serialized catalog in Redis and falls back to a
// loader on cache miss.
type CatalogRepository struct {
	client *redis.Client
	loader CatalogLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewCatalogRepository(client *redis.Client, loader CatalogLoader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CatalogRepository) GetCatalog(ctx context.Context) (domain.Catalog, error) {
	if catalog, ok := r.cached(ctx); ok {
		return catalog, nil
	}

	result, err, _ := r.sf.Do("catalog", func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if catalog, ok := r.cached(ctx); ok {
			return catalog, nil
		}

		catalog, err := r.loader.LoadCatalog(ctx)
		if err != nil {
			return domain.Catalog(nil), err
		}

		if raw, err := json.Marshal(catalog); err == nil {
			_ = r.client.Set(ctx, r.key(), raw, r.ttlWithJitter()).Err()
		}
		return catalog, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(domain.Catalog), nil
}

func (r *CatalogRepository) cached(ctx context.Context) (domain.Catalog, bool) {
	raw, err := r.client.Get(ctx, r.key()).Bytes()
	if err != nil {
		return nil, false
	}
	var catalog domain.Catalog
	if err := json.Unmarshal(raw, &catalog); err != nil || len(catalog) == 0 {
		return nil, false
	}
	return catalog, true
}

func (r *CatalogRepository) key() string {
	return "quiz:catalog"
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
