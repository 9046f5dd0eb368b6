package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"jwt_pizza_service/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRedisLedgerLifecycle(t *testing.T) {
	ctx := context.Background()
	mr, rdb := setupRedis(t)
	l := NewRedisLedger(rdb, time.Hour)

	active, err := l.IsActive(ctx, "a.b.c")
	require.NoError(t, err)
	assert.False(t, active)

	require.NoError(t, l.Activate(ctx, "a.b.c", 42))
	active, err = l.IsActive(ctx, "a.b.c")
	require.NoError(t, err)
	assert.True(t, active)
	assert.False(t, mr.Exists("auth:token:a.b.c"), "raw token must not be stored")

	require.NoError(t, l.Deactivate(ctx, "a.b.c"))
	assert.ErrorIs(t, l.Deactivate(ctx, "a.b.c"), domain.ErrNotActive)

	active, err = l.IsActive(ctx, "a.b.c")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestRedisLedgerNeverActivated(t *testing.T) {
	_, rdb := setupRedis(t)
	l := NewRedisLedger(rdb, time.Hour)
	assert.ErrorIs(t, l.Deactivate(context.Background(), "x.y.z"), domain.ErrNotActive)
}

func TestRedisLedgerExpiry(t *testing.T) {
	ctx := context.Background()
	mr, rdb := setupRedis(t)
	l := NewRedisLedger(rdb, time.Minute)

	require.NoError(t, l.Activate(ctx, "a.b.c", 1))
	mr.FastForward(2 * time.Minute)

	active, err := l.IsActive(ctx, "a.b.c")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestRedisLedgerConcurrentLogout(t *testing.T) {
	ctx := context.Background()
	_, rdb := setupRedis(t)
	l := NewRedisLedger(rdb, time.Hour)
	require.NoError(t, l.Activate(ctx, "a.b.c", 9))

	const callers = 8
	var wg sync.WaitGroup
	results := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- l.Deactivate(ctx, "a.b.c")
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrNotActive)
	}
	assert.Equal(t, 1, succeeded)
}

func TestRedisLedgerDeactivateUser(t *testing.T) {
	ctx := context.Background()
	_, rdb := setupRedis(t)
	l := NewRedisLedger(rdb, time.Hour)

	require.NoError(t, l.Activate(ctx, "user1.token.one", 1))
	require.NoError(t, l.Activate(ctx, "user1.token.two", 1))
	require.NoError(t, l.Activate(ctx, "user2.token.one", 2))
	require.NoError(t, l.Deactivate(ctx, "user1.token.two"))

	n, err := l.DeactivateUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	active, err := l.IsActive(ctx, "user1.token.one")
	require.NoError(t, err)
	assert.False(t, active)

	active, err = l.IsActive(ctx, "user2.token.one")
	require.NoError(t, err)
	assert.True(t, active)

	n, err = l.DeactivateUser(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestKeyIsStable(t *testing.T) {
	assert.Equal(t, Key("a.b.c"), Key("a.b.c"))
	assert.NotEqual(t, Key("a.b.c"), Key("a.b.d"))
	assert.Len(t, Key("a.b.c"), 64)
}
