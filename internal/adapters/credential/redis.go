package credential

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces credential keys.
const DefaultRedisPrefix = "fithub:credential:"

// RedisRegistry keeps grants in Redis with a key TTL matching the grant.
type RedisRegistry struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ Registry = (*RedisRegistry)(nil)

// NewRedisRegistry creates a registry on client. A zero ttl means DefaultTTL.
func NewRedisRegistry(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisRegistry {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisRegistry{client: client, prefix: prefix, ttl: ttl}
}

// Issue stores a grant under a new token.
// PRE: accountID is non-empty
// POST: Key exists with TTL equal to the registry ttl
func (r *RedisRegistry) Issue(ctx context.Context, accountID string) (string, error) {
	if accountID == "" {
		return "", ErrEmptyAccount
	}
	token, err := generateToken()
	if err != nil {
		return "", errors.WithStack(err)
	}

	now := time.Now()
	data, err := json.Marshal(Grant{AccountID: accountID, IssuedAt: now, ExpiresAt: now.Add(r.ttl)})
	if err != nil {
		return "", errors.WithStack(err)
	}
	if err := r.client.Set(ctx, r.prefix+token, data, r.ttl).Err(); err != nil {
		return "", errors.Wrap(err, "redis set")
	}
	return token, nil
}

// Verify reports whether a live grant exists for token.
func (r *RedisRegistry) Verify(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	data, err := r.client.Get(ctx, r.prefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, errors.Wrap(err, "redis get")
	}

	var grant Grant
	if err := json.Unmarshal(data, &grant); err != nil {
		return false, errors.Wrap(err, "unmarshal grant")
	}
	return !grant.Expired(time.Now()), nil
}

// Revoke deletes the grant for token.
func (r *RedisRegistry) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return errors.Wrap(r.client.Del(ctx, r.prefix+token).Err(), "redis del")
}

// Ping checks connectivity, used at startup.
func (r *RedisRegistry) Ping(ctx context.Context) error {
	return errors.Wrap(r.client.Ping(ctx).Err(), "redis ping")
}
