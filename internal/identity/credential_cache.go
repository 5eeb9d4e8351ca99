package identity

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// AdminTokenKey is the fixed cache key for the provider admin credential.
// No TTL is set: the provider decides when the token dies, which then
// surfaces as ErrUnauthorized on the next gateway call.
const AdminTokenKey = "identity:admin_token"

// CredentialCache keeps the admin bearer credential in redis so gateway
// calls do not pay a token round trip each time. Concurrent misses are
// collapsed into a single acquisition.
type CredentialCache struct {
	source TokenSource
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewCredentialCache(source TokenSource, rdb *redis.Client, logger ...*zap.Logger) *CredentialCache {
	l := zap.L().Named("identity.credential_cache")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("identity.credential_cache")
	}
	return &CredentialCache{
		source: source,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (c *CredentialCache) Token(ctx context.Context) (string, error) {
	if c.rdb != nil {
		if token, err := c.rdb.Get(ctx, AdminTokenKey).Result(); err == nil && token != "" {
			return token, nil
		}
	}

	v, err, shared := c.sf.Do(AdminTokenKey, func() (interface{}, error) {
		token, err := c.source.AcquireAdminCredential(ctx)
		if err != nil {
			return "", err
		}

		if c.rdb != nil {
			if err := c.rdb.Set(ctx, AdminTokenKey, token, 0).Err(); err != nil {
				c.logger.Warn("admin credential cache set failed", zap.Error(err))
			}
		}

		return token, nil
	})
	if err != nil {
		return "", err
	}

	if shared {
		c.logger.Debug("admin credential acquisition was deduplicated")
	}
	return v.(string), nil
}

// Invalidate drops the cached credential. Callers do this after a gateway
// call fails with ErrUnauthorized, then retry their operation which will
// acquire fresh.
func (c *CredentialCache) Invalidate(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, AdminTokenKey).Err()
}
