package worker

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrQueueEmpty is returned by Pop when nothing arrived within the timeout.
var ErrQueueEmpty = errors.New("queue empty")

// Queue is the list the worker drains.
type Queue interface {
	// Pop blocks up to timeout for the next item.
	Pop(ctx context.Context, timeout time.Duration) ([]byte, error)
	Push(ctx context.Context, raw []byte) error
}

// RedisQueue is a Queue over a Redis list (RPUSH producers, BLPOP consumer).
type RedisQueue struct {
	rdb *redis.Client
	key string
}

// NewRedisQueue creates a new RedisQueue on key.
func NewRedisQueue(rdb *redis.Client, key string) *RedisQueue {
	return &RedisQueue{rdb: rdb, key: key}
}

func (q *RedisQueue) Pop(ctx context.Context, timeout time.Duration) ([]byte, error) {
	item, err := q.rdb.BLPop(ctx, timeout, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrQueueEmpty
		}
		return nil, err
	}
	// BLPOP replies with [key, value].
	if len(item) < 2 {
		return nil, ErrQueueEmpty
	}
	return []byte(item[1]), nil
}

func (q *RedisQueue) Push(ctx context.Context, raw []byte) error {
	return q.rdb.RPush(ctx, q.key, raw).Err()
}
