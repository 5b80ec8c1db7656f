package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nfrund/storefront/internal/domain"
	"github.com/nfrund/storefront/internal/testutils"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a RedisCache on it.
func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client, time.Minute), mr
}

func sampleProduct(owner string) *domain.Product {
	return &domain.Product{
		Title:       "Lamp",
		Price:       decimal.RequireFromString("12.50"),
		Description: "A desk lamp",
		ImagePath:   "images/lamp.png",
		OwnerID:     owner,
	}
}

func TestRedisCache_SetGetDelete(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()

	p := sampleProduct("u1")
	p.ID = "p1"
	require.NoError(t, c.Set(ctx, p))
	assert.True(t, mr.Exists(cacheKey("p1")))

	got, err := c.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Lamp", got.Title)
	assert.True(t, got.Price.Equal(p.Price))

	require.NoError(t, c.Delete(ctx, "p1"))
	_, err = c.Get(ctx, "p1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_InvalidJSON(t *testing.T) {
	c, mr := setupTestRedis(t)
	require.NoError(t, mr.Set(cacheKey("p1"), "{not json"))

	_, err := c.Get(context.Background(), "p1")
	require.ErrorContains(t, err, "unmarshal product failed")
}

func TestRedisCache_TTLHasJitterFloor(t *testing.T) {
	c, mr := setupTestRedis(t)
	p := sampleProduct("u1")
	p.ID = "p1"
	require.NoError(t, c.Set(context.Background(), p))

	ttl := mr.TTL(cacheKey("p1"))
	assert.GreaterOrEqual(t, ttl, time.Minute)
	assert.Less(t, ttl, 6*time.Minute)
}

func TestCachedProducts_ReadThroughAndEvict(t *testing.T) {
	c, mr := setupTestRedis(t)
	repo := testutils.NewMemProducts()
	cached := NewCachedProducts(repo, c)
	ctx := context.Background()

	created, err := repo.Create(ctx, sampleProduct("u1"))
	require.NoError(t, err)

	_, err = cached.FindByID(ctx, created.ID)
	require.NoError(t, err)
	_, err = cached.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), repo.FindByIDCalls.Load(), "second read is served from redis")

	created.Title = "Better lamp"
	_, err = cached.Update(ctx, created)
	require.NoError(t, err)
	assert.False(t, mr.Exists(cacheKey(created.ID)), "update evicts")

	got, err := cached.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Better lamp", got.Title)

	require.NoError(t, cached.DeleteByIDAndOwner(ctx, created.ID, "u1"))
	assert.False(t, mr.Exists(cacheKey(created.ID)), "delete evicts")
	_, err = cached.FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCachedProducts_RedisDownFallsBack(t *testing.T) {
	c, mr := setupTestRedis(t)
	repo := testutils.NewMemProducts()
	cached := NewCachedProducts(repo, c)
	ctx := context.Background()

	created, err := repo.Create(ctx, sampleProduct("u1"))
	require.NoError(t, err)
	mr.Close()

	got, err := cached.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestCachedProducts_ConcurrentMissesShareLoad(t *testing.T) {
	c, _ := setupTestRedis(t)
	repo := testutils.NewMemProducts()
	cached := NewCachedProducts(repo, c)
	ctx := context.Background()

	created, err := repo.Create(ctx, sampleProduct("u1"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cached.FindByID(ctx, created.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, repo.FindByIDCalls.Load(), int64(8))
}

// gatedProducts blocks FindByID until released so concurrent readers pile up
// on one in-flight load.
type gatedProducts struct {
	domain.ProductRepository
	entered chan struct{}
	release chan struct{}
}

func (g *gatedProducts) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	select {
	case g.entered <- struct{}{}:
	default:
	}
	<-g.release
	return g.ProductRepository.FindByID(ctx, id)
}

func TestCachedProducts_SharedLoadReturnsCopies(t *testing.T) {
	c, _ := setupTestRedis(t)
	mem := testutils.NewMemProducts()
	ctx := context.Background()
	created, err := mem.Create(ctx, sampleProduct("u1"))
	require.NoError(t, err)

	repo := &gatedProducts{ProductRepository: mem, entered: make(chan struct{}, 1), release: make(chan struct{})}
	cached := NewCachedProducts(repo, c)

	results := make(chan *domain.Product, 2)
	read := func() {
		p, err := cached.FindByID(ctx, created.ID)
		assert.NoError(t, err)
		results <- p
	}
	go read()
	<-repo.entered
	go read()
	time.Sleep(50 * time.Millisecond)
	close(repo.release)

	first, second := <-results, <-results
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.NotSame(t, first, second)

	first.Title = "changed by one caller"
	assert.Equal(t, "Lamp", second.Title)
}
