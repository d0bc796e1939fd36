// Package revocation holds the denylist of revoked token identifiers.
// Entries expire on their own; nothing here sweeps or deletes keys.
package revocation

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a TTL-bounded set of revoked identifiers.
type Cache interface {
	Put(ctx context.Context, id string, ttl time.Duration) error
	Contains(ctx context.Context, id string) (bool, error)
	// Claim denylists id only if it is not yet listed and reports whether
	// this call was the one that listed it.
	Claim(ctx context.Context, id string, ttl time.Duration) (bool, error)
}

// ErrEmptyID is returned by Put when id is blank.
var ErrEmptyID = errors.New("revocation: empty id")

// RedisCache stores each revoked id as `SET <prefix><id> "" EX <ttl>`.
type RedisCache struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisCache returns a Cache backed by rdb.  prefix namespaces the keys
// so the denylist can share a database with the rate limiter and the
// response cache.
func NewRedisCache(rdb *redis.Client, prefix string) *RedisCache {
	return &RedisCache{rdb: rdb, prefix: prefix}
}

func (c *RedisCache) key(id string) string { return c.prefix + id }

// Put denylists id for ttl.  A non-positive ttl means the token has
// already expired and there is nothing to record.
func (c *RedisCache) Put(ctx context.Context, id string, ttl time.Duration) error {
	if id == "" {
		return ErrEmptyID
	}
	if ttl <= 0 {
		return nil
	}
	// redis EX has second granularity; never round down to zero
	if ttl < time.Second {
		ttl = time.Second
	}
	return c.rdb.Set(ctx, c.key(id), "", ttl).Err()
}

// Claim is the atomic test-and-set used for single-use tokens
// (`SET <prefix><id> "" NX EX <ttl>`).  Of any number of concurrent
// callers with the same id exactly one gets true.
func (c *RedisCache) Claim(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	if id == "" {
		return false, ErrEmptyID
	}
	if ttl < time.Second {
		ttl = time.Second
	}
	return c.rdb.SetNX(ctx, c.key(id), "", ttl).Result()
}

// Contains reports whether id is currently denylisted.
func (c *RedisCache) Contains(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	n, err := c.rdb.Exists(ctx, c.key(id)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
