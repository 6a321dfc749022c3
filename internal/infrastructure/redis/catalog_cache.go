package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/veloce-moto-api/internal/domain/entity"
	"github.com/jhoicas/veloce-moto-api/internal/domain/repository"
	"github.com/jhoicas/veloce-moto-api/pkg/logger"
)

var _ repository.CatalogRepository = (*CachedCatalog)(nil)

// CachedCatalog caché read-through delante del CMS. Los "no encontrado" también se cachean.
// Si Redis falla se consulta el CMS directamente; los errores del CMS no se cachean.
type CachedCatalog struct {
	next repository.CatalogRepository
	rdb  redis.Cmdable
	ttl  time.Duration
	log  *logger.Logger
}

// NewCachedCatalog envuelve next con una caché de TTL fijo.
func NewCachedCatalog(next repository.CatalogRepository, rdb redis.Cmdable, ttl time.Duration, log *logger.Logger) *CachedCatalog {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CachedCatalog{next: next, rdb: rdb, ttl: ttl, log: log.Named("catalog_cache")}
}

func (c *CachedCatalog) ListProducts(ctx context.Context) ([]entity.Product, error) {
	return cached(ctx, c, "catalog:products", func() ([]entity.Product, error) {
		return c.next.ListProducts(ctx)
	})
}

func (c *CachedCatalog) GetProductBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	return cached(ctx, c, "catalog:product:slug:"+slug, func() (*entity.Product, error) {
		return c.next.GetProductBySlug(ctx, slug)
	})
}

func (c *CachedCatalog) GetProductByID(ctx context.Context, id string) (*entity.Product, error) {
	return cached(ctx, c, "catalog:product:id:"+id, func() (*entity.Product, error) {
		return c.next.GetProductByID(ctx, id)
	})
}

func (c *CachedCatalog) ListProductsByCategory(ctx context.Context, categorySlug string) ([]entity.Product, error) {
	return cached(ctx, c, "catalog:products:category:"+categorySlug, func() ([]entity.Product, error) {
		return c.next.ListProductsByCategory(ctx, categorySlug)
	})
}

func (c *CachedCatalog) ListFeaturedProducts(ctx context.Context, limit int) ([]entity.Product, error) {
	return cached(ctx, c, "catalog:products:featured:"+strconv.Itoa(limit), func() ([]entity.Product, error) {
		return c.next.ListFeaturedProducts(ctx, limit)
	})
}

// SearchProducts no se cachea: las queries libres tienen poca repetición.
func (c *CachedCatalog) SearchProducts(ctx context.Context, query string) ([]entity.Product, error) {
	return c.next.SearchProducts(ctx, query)
}

func (c *CachedCatalog) ListCategories(ctx context.Context) ([]entity.Category, error) {
	return cached(ctx, c, "catalog:categories", func() ([]entity.Category, error) {
		return c.next.ListCategories(ctx)
	})
}

func (c *CachedCatalog) GetCategoryBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	return cached(ctx, c, "catalog:category:"+slug, func() (*entity.Category, error) {
		return c.next.GetCategoryBySlug(ctx, slug)
	})
}

func cached[T any](ctx context.Context, c *CachedCatalog, key string, load func() (T, error)) (T, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var v T
		if jsonErr := json.Unmarshal(raw, &v); jsonErr == nil {
			return v, nil
		}
		c.log.Warn().Str("key", key).Msg("entrada de caché corrupta, se ignora")
	case !errors.Is(err, redis.Nil):
		c.log.Warn().Err(err).Str("key", key).Msg("lectura de caché fallida")
	}

	v, err := load()
	if err != nil {
		return v, err
	}
	if raw, err := json.Marshal(v); err == nil {
		if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.log.Warn().Err(err).Str("key", key).Msg("escritura de caché fallida")
		}
	}
	return v, nil
}
