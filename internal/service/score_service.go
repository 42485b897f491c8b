package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/quiz-backend/internal/model"
	"github.com/stemsi/quiz-backend/internal/repository"
)

// SubmissionObserver receives the outcome of every scored submission.
type SubmissionObserver interface {
	ObserveSubmission(submitted, correct int)
}

// ScoreService scores submitted answer sets.
type ScoreService struct {
	answerRepo repository.AnswerRepository
	recorder   SubmissionRecorder
	observer   SubmissionObserver
	log        zerolog.Logger
	now        func() time.Time
}

// NewScoreService creates a new ScoreService. recorder and observer may be nil.
func NewScoreService(
	answerRepo repository.AnswerRepository,
	recorder SubmissionRecorder,
	observer SubmissionObserver,
	log zerolog.Logger,
) *ScoreService {
	return &ScoreService{
		answerRepo: answerRepo,
		recorder:   recorder,
		observer:   observer,
		log:        log.With().Str("component", "score_service").Logger(),
		now:        time.Now,
	}
}

// CountCorrect returns how many distinct ids name a correct answer, whatever
// quiz those answers belong to.
func (s *ScoreService) CountCorrect(ctx context.Context, answerIDs []int) (int, error) {
	ids := distinct(answerIDs)
	if len(ids) == 0 {
		return 0, nil
	}
	n, err := s.answerRepo.CountCorrect(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("count correct answers: %w", err)
	}
	return n, nil
}

// Submit scores answerIDs and hands the result to the submission log.
// A failing log never changes the returned score.
func (s *ScoreService) Submit(ctx context.Context, answerIDs []int, requestID string) (*model.ScoreResult, error) {
	n, err := s.CountCorrect(ctx, answerIDs)
	if err != nil {
		return nil, err
	}

	ids := distinct(answerIDs)
	if s.observer != nil {
		s.observer.ObserveSubmission(len(ids), n)
	}
	if s.recorder != nil {
		sub := model.Submission{
			AnswerIDs:      ids,
			CorrectAnswers: n,
			RequestID:      requestID,
			SubmittedAt:    s.now().UTC(),
		}
		if err := s.recorder.Record(ctx, sub); err != nil {
			s.log.Warn().Err(err).Str("request_id", requestID).Msg("Failed to enqueue submission")
		}
	}

	return &model.ScoreResult{CorrectAnswers: n}, nil
}

// distinct drops repeats and ids outside the serial range, which match no row.
func distinct(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if id <= 0 || id > math.MaxInt32 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
