package localstore

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreContract exercises behaviour every Store implementation must share.
func runStoreContract(t *testing.T, store Store, slot string) {
	ctx := context.Background()

	_, ok, err := store.Get(ctx, slot)
	require.NoError(t, err)
	assert.False(t, ok, "slot should start empty")

	require.NoError(t, store.Set(ctx, slot, []byte(`[1]`)))
	v, ok, err := store.Get(ctx, slot)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[1]`, string(v))

	next, err := store.Update(ctx, slot, func(current []byte, exists bool) ([]byte, error) {
		assert.True(t, exists)
		assert.Equal(t, `[1]`, string(current))
		return []byte(`[1,2]`), nil
	})
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(next))

	_, err = store.Update(ctx, slot, func(current []byte, exists bool) ([]byte, error) {
		return nil, fmt.Errorf("boom")
	})
	assert.Error(t, err)
	v, _, _ = store.Get(ctx, slot)
	assert.Equal(t, `[1,2]`, string(v), "failed update must not write")

	require.NoError(t, store.Delete(ctx, slot))
	_, ok, err = store.Get(ctx, slot)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = store.Get(ctx, "")
	assert.ErrorIs(t, err, ErrEmptySlotName)
}

func runSubscribeContract(t *testing.T, store Store, slot string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := store.Subscribe(ctx, slot)
	require.NoError(t, err)

	require.NoError(t, store.Set(context.Background(), slot, []byte(`"dark"`)))

	select {
	case <-changes:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change notification")
	}

	cancel()
	select {
	case _, ok := <-changes:
		if ok {
			// A pending signal may still be buffered; the next receive must see the close.
			_, ok = <-changes
		}
		assert.False(t, ok, "channel should be closed after cancel")
	case <-time.After(2 * time.Second):
		t.Fatal("expected channel close after cancel")
	}
}

// runConcurrentUpdates checks that read-modify-write loses no increments.
func runConcurrentUpdates(t *testing.T, store Store, slot string) {
	ctx := context.Background()
	const writers = 20

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Update(ctx, slot, func(current []byte, exists bool) ([]byte, error) {
				n := 0
				if exists {
					n, _ = strconv.Atoi(string(current))
				}
				return []byte(strconv.Itoa(n + 1)), nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	v, ok, err := store.Get(ctx, slot)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, strconv.Itoa(writers), string(v))
}

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, NewMemoryStore(), "wishlist")
}

func TestMemoryStore_Subscribe(t *testing.T) {
	runSubscribeContract(t, NewMemoryStore(), "theme")
}

func TestMemoryStore_ConcurrentUpdates(t *testing.T) {
	runConcurrentUpdates(t, NewMemoryStore(), "counter")
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	value := []byte(`[1]`)
	require.NoError(t, store.Set(ctx, "s", value))
	value[1] = '9'

	got, _, _ := store.Get(ctx, "s")
	assert.Equal(t, `[1]`, string(got))
	got[1] = '7'
	again, _, _ := store.Get(ctx, "s")
	assert.Equal(t, `[1]`, string(again))
}

func setupTestRedis(t *testing.T) *RedisStore {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping Redis store tests")
	}
	rdb, err := ConnectRedis(addr, os.Getenv("REDIS_PASSWORD"), 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = DisconnectRedis(rdb) })

	prefix := fmt.Sprintf("test:%d", time.Now().UnixNano())
	return NewRedisStore(rdb, prefix)
}

func TestRedisStore(t *testing.T) {
	runStoreContract(t, setupTestRedis(t), "wishlist")
}

func TestRedisStore_Subscribe(t *testing.T) {
	runSubscribeContract(t, setupTestRedis(t), "theme")
}

func TestRedisStore_ConcurrentUpdates(t *testing.T) {
	runConcurrentUpdates(t, setupTestRedis(t), "counter")
}
