package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/quiz-backend/internal/config"
	"github.com/stemsi/quiz-backend/internal/model"
)

// SubmissionRecorder hands scored submissions to the submission log.
type SubmissionRecorder interface {
	Record(ctx context.Context, sub model.Submission) error
}

// RedisSubmissionRecorder queues submissions on a Redis list drained by
// worker.SubmissionWorker.
type RedisSubmissionRecorder struct {
	rdb *redis.Client
}

// NewRedisSubmissionRecorder creates a new RedisSubmissionRecorder.
func NewRedisSubmissionRecorder(rdb *redis.Client) *RedisSubmissionRecorder {
	return &RedisSubmissionRecorder{rdb: rdb}
}

func (r *RedisSubmissionRecorder) Record(ctx context.Context, sub model.Submission) error {
	raw, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}
	return r.rdb.RPush(ctx, config.WorkerKey.PersistSubmissionsQueue, raw).Err()
}
