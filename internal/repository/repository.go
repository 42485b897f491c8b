package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stemsi/quiz-backend/internal/model"
)

// Storage errors shared by every repository implementation.
var (
	ErrNotFound  = errors.New("row does not exist")
	ErrDuplicate = errors.New("duplicate key")
)

// PostgreSQL error codes the repositories translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// QuizRepository persists quizzes.
type QuizRepository interface {
	List(ctx context.Context, filter model.QuizFilter) ([]model.Quiz, error)
	GetByID(ctx context.Context, id int) (*model.Quiz, error)
	Create(ctx context.Context, quiz *model.Quiz) error
	Update(ctx context.Context, quiz *model.Quiz) error
	Delete(ctx context.Context, id int) error
	SetMandatory(ctx context.Context, id int) error
}

// AnswerRepository persists answers. Lookups taking a quizID only match
// answers owned by that quiz.
type AnswerRepository interface {
	ListByQuiz(ctx context.Context, quizID int) ([]model.Answer, error)
	ListByQuizIDs(ctx context.Context, quizIDs []int) ([]model.Answer, error)
	GetByID(ctx context.Context, id int) (*model.Answer, error)
	GetInQuiz(ctx context.Context, quizID, id int) (*model.Answer, error)
	Create(ctx context.Context, answer *model.Answer) error
	UpdateTitle(ctx context.Context, answer *model.Answer) error
	Delete(ctx context.Context, id int) error
	SetCorrect(ctx context.Context, quizID, id int) error
	CountCorrect(ctx context.Context, ids []int) (int, error)
}

// SubmissionRepository stores the submission log.
type SubmissionRepository interface {
	Insert(ctx context.Context, sub *model.Submission) error
	InsertBatch(ctx context.Context, subs []model.Submission) error
}

// translate maps driver errors onto the shared storage errors.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", ErrNotFound, pgErr.ConstraintName)
		}
	}
	return err
}
