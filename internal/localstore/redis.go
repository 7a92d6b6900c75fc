package localstore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Hiltonrealtorsnm/frontend/internal/retry"
)

const maxTxRetries = 5

// ConnectRedis initializes and returns a Redis client instance.
func ConnectRedis(addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := rdb.Ping(ctx).Result()
	if err != nil {
		// Close the client if ping fails
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	fmt.Println("Successfully connected to Redis!")
	return rdb, nil
}

// DisconnectRedis closes the Redis client connection.
func DisconnectRedis(client *redis.Client) error {
	if client == nil {
		return nil
	}
	if err := client.Close(); err != nil {
		return fmt.Errorf("failed to close Redis connection: %w", err)
	}
	fmt.Println("Redis connection closed.")
	return nil
}

// RedisStore keeps slots in Redis so that every process sharing the instance
// sees the same slots. Changes are announced on a pub/sub channel per slot.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore creates a RedisStore whose keys live under prefix.
func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) key(slot string) string {
	return s.prefix + ":slot:" + slot
}

func (s *RedisStore) channel(slot string) string {
	return s.prefix + ":changed:" + slot
}

func (s *RedisStore) Get(ctx context.Context, slot string) ([]byte, bool, error) {
	if slot == "" {
		return nil, false, ErrEmptySlotName
	}
	v, err := s.rdb.Get(ctx, s.key(slot)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read slot %s: %w", slot, err)
	}
	return v, true, nil
}

func (s *RedisStore) Set(ctx context.Context, slot string, value []byte) error {
	if slot == "" {
		return ErrEmptySlotName
	}
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(slot), value, 0)
		pipe.Publish(ctx, s.channel(slot), "set")
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write slot %s: %w", slot, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, slot string) error {
	if slot == "" {
		return ErrEmptySlotName
	}
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key(slot))
		pipe.Publish(ctx, s.channel(slot), "delete")
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete slot %s: %w", slot, err)
	}
	return nil
}

// Update runs fn inside WATCH/MULTI. A concurrent writer aborts the
// transaction; fn is then re-run against the fresh value.
func (s *RedisStore) Update(ctx context.Context, slot string, fn UpdateFunc) ([]byte, error) {
	if slot == "" {
		return nil, ErrEmptySlotName
	}
	key := s.key(slot)
	var result []byte

	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		exists := true
		if errors.Is(err, redis.Nil) {
			exists = false
			err = nil
		}
		if err != nil {
			return err
		}

		next, err := fn(current, exists)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if next == nil {
				pipe.Del(ctx, key)
			} else {
				pipe.Set(ctx, key, next, 0)
			}
			pipe.Publish(ctx, s.channel(slot), "update")
			return nil
		})
		if err == nil {
			result = next
		}
		return err
	}

	err := retry.WithRetries(ctx, func() error {
		return s.rdb.Watch(ctx, txf, key)
	}, maxTxRetries, func(err error) bool {
		if errors.Is(err, redis.TxFailedErr) {
			log.Printf("Slot %s changed during update, retrying", slot)
			return true
		}
		return false
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update slot %s: %w", slot, err)
	}
	return result, nil
}

func (s *RedisStore) Subscribe(ctx context.Context, slot string) (<-chan struct{}, error) {
	if slot == "" {
		return nil, ErrEmptySlotName
	}
	pubsub := s.rdb.Subscribe(ctx, s.channel(slot))
	// Wait for the subscription to be confirmed so no change is missed after
	// Subscribe returns.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to slot %s: %w", slot, err)
	}

	out := make(chan struct{}, 1)
	msgs := pubsub.Channel()
	go func() {
		defer close(out)
		defer pubsub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()
	return out, nil
}
