package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carlot/inventory-api/internal/core/domain"
)

const (
	defaultIdentityTTL = time.Minute

	// versionTTL bounds how long an idle username keeps its version key. It
	// only has to outlive a single store read.
	versionTTL = time.Hour
)

// IdentityCache keeps resolved identities in Redis so that a burst of
// authenticated requests does not hit the identity store every time.
//
//	identity:<username>          JSON encoded domain user, expires after ttl
//	identity_version:<username>  bumped by Invalidate, checked by Set
//
// The password hash is never serialised, so it never reaches Redis.
type IdentityCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdentityCache wraps client. A non-positive ttl falls back to one minute.
func NewIdentityCache(client *redis.Client, ttl time.Duration) *IdentityCache {
	if ttl <= 0 {
		ttl = defaultIdentityTTL
	}
	return &IdentityCache{client: client, ttl: ttl}
}

func (c *IdentityCache) Get(ctx context.Context, username string) (*domain.User, int64, error) {
	vals, err := c.client.MGet(ctx, c.key(username), c.versionKey(username)).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("identity cache get: %w", err)
	}

	version, err := parseVersion(vals[1])
	if err != nil {
		return nil, 0, err
	}

	raw, ok := vals[0].(string)
	if !ok {
		return nil, version, nil
	}
	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, 0, fmt.Errorf("identity cache decode: %w", err)
	}
	return &u, version, nil
}

// Set caches user unless its username was invalidated after version was read.
// A lost race is not an error: the entry is simply not written.
func (c *IdentityCache) Set(ctx context.Context, user *domain.User, version int64) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("identity cache encode: %w", err)
	}

	vkey := c.versionKey(user.Username)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, vkey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.key(user.Username), raw, c.ttl)
			return nil
		})
		return err
	}, vkey)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("identity cache set: %w", err)
	}
	return nil
}

// Invalidate drops the cached entries and bumps each username's version.
func (c *IdentityCache) Invalidate(ctx context.Context, usernames ...string) error {
	if len(usernames) == 0 {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, u := range usernames {
			pipe.Incr(ctx, c.versionKey(u))
			pipe.Expire(ctx, c.versionKey(u), versionTTL)
			pipe.Del(ctx, c.key(u))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("identity cache invalidate: %w", err)
	}
	return nil
}

func (c *IdentityCache) key(username string) string {
	return "identity:" + username
}

func (c *IdentityCache) versionKey(username string) string {
	return "identity_version:" + username
}

func parseVersion(v any) (int64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("identity cache version %q: %w", s, err)
	}
	return n, nil
}
