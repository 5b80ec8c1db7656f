package cache

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nfrund/storefront/internal/domain"
	"golang.org/x/sync/singleflight"
)

var _ domain.ProductRepository = (*CachedProducts)(nil)

// CachedProducts is a read-through cache in front of a ProductRepository.
// Single-product reads are served from redis; edits and deletes evict.
// Cache failures degrade to the underlying repository.
type CachedProducts struct {
	domain.ProductRepository
	cache *RedisCache
	sfg   singleflight.Group
}

// NewCachedProducts wraps repo with cache.
func NewCachedProducts(repo domain.ProductRepository, cache *RedisCache) *CachedProducts {
	return &CachedProducts{ProductRepository: repo, cache: cache}
}

// FindByID reads through the cache. Concurrent misses for one id share a
// single load; every caller gets its own copy of the result.
func (c *CachedProducts) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	product, err := c.cache.Get(ctx, id)
	if err == nil {
		return product, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		slog.WarnContext(ctx, "Product cache read failed", "event", "cache_read_failed", "product_id", id, "error", err)
	}

	v, err, _ := c.sfg.Do(id, func() (any, error) {
		p, err := c.ProductRepository.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := c.cache.Set(ctx, p); err != nil {
			slog.WarnContext(ctx, "Product cache write failed", "event", "cache_write_failed", "product_id", id, "error", err)
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	cp := *v.(*domain.Product)
	return &cp, nil
}

// Update writes through and evicts the cached copy.
func (c *CachedProducts) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	updated, err := c.ProductRepository.Update(ctx, product)
	if err != nil {
		return nil, err
	}
	c.evict(ctx, product.ID)
	return updated, nil
}

// DeleteByIDAndOwner deletes through and evicts the cached copy.
func (c *CachedProducts) DeleteByIDAndOwner(ctx context.Context, id, ownerID string) error {
	if err := c.ProductRepository.DeleteByIDAndOwner(ctx, id, ownerID); err != nil {
		return err
	}
	c.evict(ctx, id)
	return nil
}

func (c *CachedProducts) evict(ctx context.Context, id string) {
	if err := c.cache.Delete(ctx, id); err != nil {
		slog.WarnContext(ctx, "Product cache eviction failed", "event", "cache_evict_failed", "product_id", id, "error", err)
	}
}
