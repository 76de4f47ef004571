package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestLockers(t *testing.T) {
	_, client := newTestRedis(t)

	lockers := map[string]Locker{
		"redis": NewRedisLocker(client),
		"local": NewLocalLocker(),
	}

	for name, locker := range lockers {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			release, ok, err := locker.TryLock(ctx, "settle:abc", time.Minute)
			require.NoError(t, err)
			require.True(t, ok)

			_, ok, err = locker.TryLock(ctx, "settle:abc", time.Minute)
			require.NoError(t, err)
			assert.False(t, ok, "second holder must be refused")

			other, ok, err := locker.TryLock(ctx, "settle:def", time.Minute)
			require.NoError(t, err)
			assert.True(t, ok, "distinct keys do not contend")
			other()

			release()

			again, ok, err := locker.TryLock(ctx, "settle:abc", time.Minute)
			require.NoError(t, err)
			assert.True(t, ok)
			again()
		})
	}
}

func TestRedisLockerReleaseKeepsForeignToken(t *testing.T) {
	mr, client := newTestRedis(t)
	locker := NewRedisLocker(client)
	ctx := context.Background()

	release, ok, err := locker.TryLock(ctx, "k", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	// expire and let somebody else take the key
	mr.FastForward(2 * time.Second)
	_, ok, err = locker.TryLock(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	release()
	assert.True(t, mr.Exists("lock:k"))
}

func TestLocalLockerSingleWinner(t *testing.T) {
	locker := NewLocalLocker()
	var wins int32
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok, _ := locker.TryLock(context.Background(), "same", time.Minute); ok {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins)
}

func TestLocalLockerExpiry(t *testing.T) {
	locker := NewLocalLocker()
	_, ok, _ := locker.TryLock(context.Background(), "k", time.Millisecond)
	require.True(t, ok)

	time.Sleep(5 * time.Millisecond)
	_, ok, _ = locker.TryLock(context.Background(), "k", time.Minute)
	assert.True(t, ok)
}
