package product

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"kalasahayak/internal/catalog"
)

const (
	CandidatesKey = "catalog:candidates"
	// VersionKey is bumped on every write. Cached candidate sets live under
	// a key carrying the version they were read at, so a fill that raced a
	// write lands on a key nobody reads anymore.
	VersionKey = CandidatesKey + ":version"
)

// CachedRepo caches the candidate set in Redis. A Redis failure never fails
// a read; the inner repository is used instead.
type CachedRepo struct {
	inner Repository
	rdb   redis.Cmdable
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachedRepo(inner Repository, rdb redis.Cmdable, ttl time.Duration, log *zap.Logger) *CachedRepo {
	return &CachedRepo{inner: inner, rdb: rdb, ttl: ttl, log: log}
}

// entryKey names the cache entry for the current version. The version is
// read before the inner repository so that a later write always moves
// readers to a fresh key.
func (c *CachedRepo) entryKey(ctx context.Context) (string, bool) {
	v, err := c.rdb.Get(ctx, VersionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.log.Warn("candidate cache read failed", zap.Error(err))
		return "", false
	}
	return fmt.Sprintf("%s:v%d", CandidatesKey, v), true
}

func (c *CachedRepo) Candidates(ctx context.Context) ([]catalog.Item, error) {
	key, ok := c.entryKey(ctx)
	if !ok {
		return c.inner.Candidates(ctx)
	}

	b, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var items []catalog.Item
		uerr := json.Unmarshal(b, &items)
		if uerr == nil {
			return items, nil
		}
		c.log.Warn("discarding undecodable cached candidates", zap.Error(uerr))
	case errors.Is(err, redis.Nil):
	default:
		c.log.Warn("candidate cache read failed", zap.Error(err))
	}

	items, err := c.inner.Candidates(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(items)
	if err != nil {
		return items, nil
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warn("candidate cache write failed", zap.Error(err))
	}
	return items, nil
}

func (c *CachedRepo) GetByID(ctx context.Context, id string) (catalog.Item, error) {
	return c.inner.GetByID(ctx, id)
}

func (c *CachedRepo) Upsert(ctx context.Context, item catalog.Item) error {
	if err := c.inner.Upsert(ctx, item); err != nil {
		return err
	}
	c.Invalidate(ctx)
	return nil
}

// Invalidate moves readers to a new, empty cache entry. Old entries expire
// on their own.
func (c *CachedRepo) Invalidate(ctx context.Context) {
	if err := c.rdb.Incr(ctx, VersionKey).Err(); err != nil {
		c.log.Warn("candidate cache invalidation failed", zap.Error(err))
	}
}
