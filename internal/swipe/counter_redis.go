package swipe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// counterGrace keeps a bucket around briefly after its day ends
const counterGrace = time.Hour

// RedisCounter stores daily counters as swipes:{user}:{yyyy-mm-dd} keys that expire
// after the day is over. Shared across processes.
type RedisCounter struct {
	rdb *redis.Client
}

var _ Counter = (*RedisCounter)(nil)

// NewRedisCounter creates a counter on an existing client
func NewRedisCounter(rdb *redis.Client) *RedisCounter {
	return &RedisCounter{rdb: rdb}
}

// CounterKey returns the Redis key for a user's daily bucket
func CounterKey(userID uuid.UUID, day time.Time) string {
	return fmt.Sprintf("swipes:%s:%s", userID, DayKey(day))
}

// Increment atomically bumps the bucket and sets its expiry
func (c *RedisCounter) Increment(ctx context.Context, userID uuid.UUID, day time.Time) (int, error) {
	key := CounterKey(userID, day)
	pipe := c.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireAt(ctx, key, NextReset(day).Add(counterGrace))
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("incr %s: %w", key, err)
	}
	return int(incr.Val()), nil
}

// Decrement rolls back one increment
func (c *RedisCounter) Decrement(ctx context.Context, userID uuid.UUID, day time.Time) error {
	key := CounterKey(userID, day)
	if err := c.rdb.Decr(ctx, key).Err(); err != nil {
		return fmt.Errorf("decr %s: %w", key, err)
	}
	return nil
}

// Count reads the bucket; a missing key counts as zero
func (c *RedisCounter) Count(ctx context.Context, userID uuid.UUID, day time.Time) (int, error) {
	key := CounterKey(userID, day)
	n, err := c.rdb.Get(ctx, key).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get %s: %w", key, err)
	}
	return n, nil
}
