package ledger

import (
	"context" // Request-scoped calls
	"errors"  // Sentinel matching
	"fmt"     // Error wrapping
	"strconv" // User id keys
	"time"    // Entry expiry

	"jwt_pizza_service/internal/domain" // Domain errors

	"github.com/redis/go-redis/v9" // Redis client
)

// RedisLedger keeps one key per active token and a per-user index set so a
// user's tokens can be revoked together.
type RedisLedger struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var _ Ledger = (*RedisLedger)(nil)

// NewRedisLedger builds a ledger whose entries expire with the tokens they
// track; a zero ttl keeps entries until they are deactivated.
func NewRedisLedger(client redis.UniversalClient, ttl time.Duration) *RedisLedger {
	return &RedisLedger{client: client, ttl: ttl}
}

func tokenKey(key string) string { return "auth:token:" + key }

func userKey(userID uint) string { return fmt.Sprintf("auth:user:%d:tokens", userID) }

// Activate records a token as usable
func (l *RedisLedger) Activate(ctx context.Context, token string, userID uint) error {
	key := Key(token)
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, tokenKey(key), userID, l.ttl)
		pipe.SAdd(ctx, userKey(userID), key)
		if l.ttl > 0 {
			pipe.Expire(ctx, userKey(userID), l.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("activate token: %w", err)
	}
	return nil
}

// Deactivate removes a token. GETDEL makes the removal atomic, so of two
// concurrent logouts only one succeeds.
func (l *RedisLedger) Deactivate(ctx context.Context, token string) error {
	key := Key(token)
	owner, err := l.client.GetDel(ctx, tokenKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.ErrNotActive
	}
	if err != nil {
		return fmt.Errorf("deactivate token: %w", err)
	}
	if id, err := strconv.ParseUint(owner, 10, 64); err == nil {
		if err := l.client.SRem(ctx, userKey(uint(id)), key).Err(); err != nil {
			return fmt.Errorf("unindex token: %w", err)
		}
	}
	return nil
}

// IsActive reports ledger membership
func (l *RedisLedger) IsActive(ctx context.Context, token string) (bool, error) {
	n, err := l.client.Exists(ctx, tokenKey(Key(token))).Result()
	if err != nil {
		return false, fmt.Errorf("check token: %w", err)
	}
	return n == 1, nil
}

// DeactivateUser revokes every active token of a user and returns how many
// were still active
func (l *RedisLedger) DeactivateUser(ctx context.Context, userID uint) (int, error) {
	keys, err := l.client.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("list user tokens: %w", err)
	}
	if len(keys) == 0 {
		return 0, nil
	}
	stored := make([]string, len(keys))
	for i, k := range keys {
		stored[i] = tokenKey(k)
	}
	removed, err := l.client.Del(ctx, stored...).Result()
	if err != nil {
		return 0, fmt.Errorf("revoke user tokens: %w", err)
	}
	if err := l.client.Del(ctx, userKey(userID)).Err(); err != nil {
		return int(removed), fmt.Errorf("drop user index: %w", err)
	}
	return int(removed), nil
}
