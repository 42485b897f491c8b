package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/quiz-backend/internal/model"
	"github.com/stemsi/quiz-backend/internal/repository"
)

const (
	SubmissionBatchSize    = 50
	SubmissionBatchTimeout = 2 * time.Second
	SubmissionPollTimeout  = 1 * time.Second
	SubmissionMaxAttempts  = 3
)

// BatchObserver is told how every flush went.
type BatchObserver interface {
	ObserveBatch(outcome string, items int)
}

// SubmissionWorker moves queued submissions into the submission log table.
type SubmissionWorker struct {
	queue    Queue
	repo     repository.SubmissionRepository
	observer BatchObserver
	log      zerolog.Logger

	batchSize    int
	batchTimeout time.Duration
	pollTimeout  time.Duration
	maxAttempts  int
}

// NewSubmissionWorker creates a new SubmissionWorker. observer may be nil.
func NewSubmissionWorker(queue Queue, repo repository.SubmissionRepository, observer BatchObserver, log zerolog.Logger) *SubmissionWorker {
	return &SubmissionWorker{
		queue:        queue,
		repo:         repo,
		observer:     observer,
		log:          log.With().Str("component", "submission_worker").Logger(),
		batchSize:    SubmissionBatchSize,
		batchTimeout: SubmissionBatchTimeout,
		pollTimeout:  SubmissionPollTimeout,
		maxAttempts:  SubmissionMaxAttempts,
	}
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

// Start drains the queue until ctx is cancelled, then flushes what is left.
func (w *SubmissionWorker) Start(ctx context.Context) {
	w.log.Info().Msg("SubmissionWorker started")

	batch := make([]model.Submission, 0, w.batchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= w.batchSize || time.Since(lastFlush) >= w.batchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Int("pending", len(batch)).Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			raw, err := w.queue.Pop(ctx, w.pollTimeout)
			if err != nil {
				if !errors.Is(err, ErrQueueEmpty) && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("Queue pop failed")
					// Avoid a hot loop while the queue is unreachable.
					sleep(ctx, w.pollTimeout)
				}
				continue
			}

			var sub model.Submission
			if err := json.Unmarshal(raw, &sub); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload, dropping")
				continue
			}
			batch = append(batch, sub)
		}
	}
}

// ----------------------------------------------------------------
// Bulk insert with single-row fallback
// ----------------------------------------------------------------

func (w *SubmissionWorker) flushSafe(ctx context.Context, batch []model.Submission) {
	if len(batch) == 0 {
		return
	}

	err := w.repo.InsertBatch(ctx, batch)
	if err == nil {
		w.observe("bulk", len(batch))
		w.log.Debug().Int("count", len(batch)).Msg("Submission batch persisted")
		return
	}

	w.log.Warn().Err(err).Int("count", len(batch)).Msg("Bulk submission insert failed, using fallback")

	saved, requeued, dropped := 0, 0, 0
	for i := range batch {
		sub := batch[i]
		if err := w.repo.Insert(ctx, &sub); err != nil {
			sub.Attempts++
			if sub.Attempts >= w.maxAttempts {
				w.log.Error().Err(err).
					Str("request_id", sub.RequestID).
					Int("attempts", sub.Attempts).
					Msg("Single insert failed too often, dropping submission")
				dropped++
				continue
			}
			w.log.Error().Err(err).Str("request_id", sub.RequestID).Msg("Single insert failed, requeueing")
			raw, _ := json.Marshal(sub)
			if err := w.queue.Push(ctx, raw); err != nil {
				w.log.Error().Err(err).Str("request_id", sub.RequestID).Msg("Requeue failed, submission lost")
			}
			requeued++
			continue
		}
		saved++
	}
	w.observe("single", saved)
	w.observe("requeued", requeued)
	w.observe("dropped", dropped)
}

func (w *SubmissionWorker) observe(outcome string, n int) {
	if w.observer != nil && n > 0 {
		w.observer.ObserveBatch(outcome, n)
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
