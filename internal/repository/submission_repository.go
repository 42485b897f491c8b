package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/quiz-backend/internal/model"
)

var submissionColumns = []string{"answer_ids", "correct_answers", "request_id", "submitted_at"}

type submissionRepository struct {
	db *pgxpool.Pool
}

// NewSubmissionRepository returns the PostgreSQL-backed SubmissionRepository.
func NewSubmissionRepository(db *pgxpool.Pool) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Insert(ctx context.Context, sub *model.Submission) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO quiz_submissions (answer_ids, correct_answers, request_id, submitted_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		sub.AnswerIDs, sub.CorrectAnswers, sub.RequestID, sub.SubmittedAt,
	).Scan(&sub.ID)
}

// InsertBatch writes the whole batch with a single COPY.
func (r *submissionRepository) InsertBatch(ctx context.Context, subs []model.Submission) error {
	if len(subs) == 0 {
		return nil
	}
	_, err := r.db.CopyFrom(ctx,
		pgx.Identifier{"quiz_submissions"},
		submissionColumns,
		pgx.CopyFromSlice(len(subs), func(i int) ([]any, error) {
			s := subs[i]
			return []any{s.AnswerIDs, s.CorrectAnswers, s.RequestID, s.SubmittedAt}, nil
		}),
	)
	return err
}
