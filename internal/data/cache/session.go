package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/classroom-backend/internal/platform/logger"
)

// CachedSession is the slice of a session row the auth path needs.
type CachedSession struct {
	ID        uuid.UUID `json:"id"`
	AccountID uuid.UUID `json:"accountId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type SessionCache interface {
	Get(ctx context.Context, id uuid.UUID) (*CachedSession, error)
	Set(ctx context.Context, s CachedSession) error
	Delete(ctx context.Context, id uuid.UUID) error
}

const sessionKeyPrefix = "classroom:session:"

type redisSessionCache struct {
	rdb    *goredis.Client
	maxTTL time.Duration
	log    *logger.Logger
}

// NewSessionCache returns a Redis-backed cache, or a no-op cache when rdb is
// nil. Entries live until the session expires, capped at maxTTL.
func NewSessionCache(rdb *goredis.Client, maxTTL time.Duration, baseLog *logger.Logger) SessionCache {
	if rdb == nil {
		return noopSessionCache{}
	}
	if maxTTL <= 0 {
		maxTTL = 10 * time.Minute
	}
	return &redisSessionCache{rdb: rdb, maxTTL: maxTTL, log: baseLog.With("cache", "SessionCache")}
}

func sessionKey(id uuid.UUID) string { return sessionKeyPrefix + id.String() }

func (c *redisSessionCache) Get(ctx context.Context, id uuid.UUID) (*CachedSession, error) {
	raw, err := c.rdb.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s CachedSession
	if err := json.Unmarshal(raw, &s); err != nil {
		// Corrupt entry: drop it and fall through to the database.
		_ = c.rdb.Del(ctx, sessionKey(id)).Err()
		return nil, nil
	}
	return &s, nil
}

func (c *redisSessionCache) Set(ctx context.Context, s CachedSession) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	if ttl > c.maxTTL {
		ttl = c.maxTTL
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, sessionKey(s.ID), raw, ttl).Err()
}

func (c *redisSessionCache) Delete(ctx context.Context, id uuid.UUID) error {
	return c.rdb.Del(ctx, sessionKey(id)).Err()
}

type noopSessionCache struct{}

func (noopSessionCache) Get(context.Context, uuid.UUID) (*CachedSession, error) { return nil, nil }
func (noopSessionCache) Set(context.Context, CachedSession) error               { return nil }
func (noopSessionCache) Delete(context.Context, uuid.UUID) error                { return nil }
