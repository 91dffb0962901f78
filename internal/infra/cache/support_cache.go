package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"vialmedia/internal/domain/support"
	"vialmedia/internal/usecase"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
)

const supportKeyPrefix = "support:"

// SupportCache is a read-through cache in front of the support repository.
// Redis trouble is logged and degrades to direct reads; the cache is never
// allowed to fail a request.
type SupportCache struct {
	inner usecase.SupportRepository
	rdb   *redis.Client
	ttl   time.Duration
}

func NewSupportCache(inner usecase.SupportRepository, rdb *redis.Client, ttl time.Duration) *SupportCache {
	return &SupportCache{inner: inner, rdb: rdb, ttl: ttl}
}

var _ usecase.SupportRepository = (*SupportCache)(nil)

func (c *SupportCache) FindByID(ctx context.Context, id uuid.UUID) (*support.Support, error) {
	return c.readThrough(ctx, supportKeyPrefix+"id:"+id.String(), func() (*support.Support, error) {
		return c.inner.FindByID(ctx, id)
	})
}

func (c *SupportCache) FindByCode(ctx context.Context, code string) (*support.Support, error) {
	return c.readThrough(ctx, supportKeyPrefix+"code:"+code, func() (*support.Support, error) {
		return c.inner.FindByCode(ctx, code)
	})
}

// ListAll always hits the database; callers are batch jobs and reports that
// want fresh rows.
func (c *SupportCache) ListAll(ctx context.Context) ([]support.Support, error) {
	return c.inner.ListAll(ctx)
}

// UpdateStatus writes through and drops the cached entries. The invalidation
// happens while the caller's transaction is still open, so a concurrent read
// can re-cache the pre-commit status; the TTL bounds how long that copy lives.
func (c *SupportCache) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status support.Status) error {
	if err := c.inner.UpdateStatus(ctx, tx, id, status); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

func (c *SupportCache) readThrough(ctx context.Context, key string, load func() (*support.Support, error)) (*support.Support, error) {
	if data, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var sup support.Support
		if err := json.Unmarshal(data, &sup); err == nil {
			return &sup, nil
		}
	} else if err != redis.Nil {
		slog.Warn("support cache read failed", "key", key, "error", err)
	}

	sup, err := load()
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(sup); err == nil {
		if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			slog.Warn("support cache write failed", "key", key, "error", err)
		}
	}
	return sup, nil
}

// invalidate drops both keys of a support. The code key needs a read to
// resolve; stale entries expire with the TTL if that read fails.
func (c *SupportCache) invalidate(ctx context.Context, id uuid.UUID) {
	keys := []string{supportKeyPrefix + "id:" + id.String()}
	if sup, err := c.inner.FindByID(ctx, id); err == nil {
		keys = append(keys, supportKeyPrefix+"code:"+sup.Code)
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("support cache invalidation failed", "id", id, "error", err)
	}
}
