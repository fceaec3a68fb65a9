package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/producthub/catalog-api/internal/api/metrics"
	"github.com/producthub/catalog-api/internal/core/domain"
	"github.com/producthub/catalog-api/internal/core/ports"
)

const (
	defaultCacheTTL = 5 * time.Minute
	// loadTimeout bounds a shared load, which ignores caller cancellation.
	loadTimeout = 10 * time.Second

	generationKey = "products:gen"
)

// ProductCache is a read-through cache in front of a ProductRepository.
//
// Single products are cached under product:<id> and dropped on every write to
// that id. Listings and categories are keyed by a generation counter which
// each write increments, so stale listings are never served after a write
// completes. Cache failures are logged and the call falls through to the
// wrapped repository.
type ProductCache struct {
	next   ports.ProductRepository
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
	group  singleflight.Group
}

var _ ports.ProductRepository = (*ProductCache)(nil)

func NewProductCache(next ports.ProductRepository, client *redis.Client, ttl time.Duration, log zerolog.Logger) *ProductCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &ProductCache{
		next:   next,
		client: client,
		ttl:    ttl,
		log:    log.With().Str("component", "product_cache").Logger(),
	}
}

func productKey(id string) string { return "product:" + id }

func listKey(gen int64, f domain.ProductFilter) string {
	return fmt.Sprintf("products:list:%d:q=%q|c=%q|p=%g-%g|r=%g|l=%d|o=%d",
		gen, f.Search, f.Category, f.MinPrice, f.MaxPrice, f.MinRating, f.Limit, f.Offset)
}

func categoriesKey(gen int64) string {
	return "products:categories:" + strconv.FormatInt(gen, 10)
}

func (c *ProductCache) List(ctx context.Context, f domain.ProductFilter) ([]*domain.Product, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("read cache generation")
		return c.next.List(ctx, f)
	}

	var out []*domain.Product
	err = c.readThrough(ctx, listKey(gen, f), &out, func(ctx context.Context) (any, error) {
		return c.next.List(ctx, f)
	})
	return out, err
}

func (c *ProductCache) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var out *domain.Product
	err := c.readThrough(ctx, productKey(id), &out, func(ctx context.Context) (any, error) {
		return c.next.FindByID(ctx, id)
	})
	return out, err
}

func (c *ProductCache) Categories(ctx context.Context) ([]string, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("read cache generation")
		return c.next.Categories(ctx)
	}

	var out []string
	err = c.readThrough(ctx, categoriesKey(gen), &out, func(ctx context.Context) (any, error) {
		return c.next.Categories(ctx)
	})
	return out, err
}

func (c *ProductCache) Count(ctx context.Context) (int64, error) {
	return c.next.Count(ctx)
}

func (c *ProductCache) Create(ctx context.Context, p *domain.Product) error {
	if err := c.next.Create(ctx, p); err != nil {
		return err
	}
	c.invalidate(ctx, p.ID)
	return nil
}

func (c *ProductCache) Update(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	updated, err := c.next.Update(ctx, p)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, p.ID)
	return updated, nil
}

func (c *ProductCache) Delete(ctx context.Context, id string) error {
	if err := c.next.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

func (c *ProductCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *ProductCache) invalidate(ctx context.Context, id string) {
	pipe := c.client.TxPipeline()
	pipe.Incr(ctx, generationKey)
	pipe.Del(ctx, productKey(id))
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.Error().Err(err).Str("product_id", id).Msg("invalidate product cache")
	}
}

// readThrough decodes key into dst on a hit. On a miss it loads the value
// once per key across concurrent callers, stores it, and copies it into dst.
// The load runs detached from ctx so one caller giving up does not fail the
// others waiting on the same key.
func (c *ProductCache) readThrough(ctx context.Context, key string, dst any, load func(context.Context) (any, error)) error {
	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if jerr := json.Unmarshal(raw, dst); jerr == nil {
			metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
			return nil
		}
		metrics.CacheLookupsTotal.WithLabelValues("error").Inc()
		c.log.Warn().Str("key", key).Msg("discarding undecodable cache entry")
	case errors.Is(err, redis.Nil):
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
	default:
		metrics.CacheLookupsTotal.WithLabelValues("error").Inc()
		c.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	resultChan := c.group.DoChan(key, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		payload, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode cache entry: %w", err)
		}
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
		return payload, nil
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return res.Err
		}
		return json.Unmarshal(res.Val.([]byte), dst)
	}
}
