package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"waterwise-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// CatalogLoader fetches the screen catalog from a backing store (file, Postgres, etc).
type CatalogLoader interface {
	LoadCatalog(ctx context.Context) (*domain.Catalog, error)
}

// CatalogRepository caches the catalog in Redis as one JSON blob under
// quiz:catalog and falls back to a loader on cache miss.
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

const catalogKey = "quiz:catalog"

func (r *CatalogRepository) GetCatalog(ctx context.Context) (*domain.Catalog, error) {
	if catalog, ok := r.fromCache(ctx); ok {
		return catalog, nil
	}

	result, err, _ := r.sf.Do(catalogKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if catalog, ok := r.fromCache(ctx); ok {
			return catalog, nil
		}

		catalog, err := r.loader.LoadCatalog(ctx)
		if err != nil {
			return nil, err
		}

		if raw, err := json.Marshal(catalog.Screens()); err == nil {
			// Best-effort: a failed cache write only costs the next request a reload.
			_ = r.client.Set(ctx, catalogKey, raw, r.ttlWithJitter()).Err()
		}
		return catalog, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.Catalog), nil
}

func (r *CatalogRepository) fromCache(ctx context.Context) (*domain.Catalog, bool) {
	raw, err := r.client.Get(ctx, catalogKey).Bytes()
	if err != nil || len(raw) == 0 {
		return nil, false
	}
	var screens []domain.Screen
	if err := json.Unmarshal(raw, &screens); err != nil {
		return nil, false
	}
	catalog, err := domain.NewCatalog(screens)
	if err != nil {
		// Stale or corrupt cache entry; reload from the source of truth.
		return nil, false
	}
	return catalog, true
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
