package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/quiz-backend/internal/model"
)

const answerColumns = `id, quiz_id, title, is_correct, created_at, updated_at`

type answerRepository struct {
	db *pgxpool.Pool
}

// NewAnswerRepository returns the PostgreSQL-backed AnswerRepository.
func NewAnswerRepository(db *pgxpool.Pool) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) ListByQuiz(ctx context.Context, quizID int) ([]model.Answer, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+answerColumns+` FROM answers WHERE quiz_id = $1 ORDER BY id ASC`, quizID)
	if err != nil {
		return nil, err
	}
	return scanAnswers(rows)
}

func (r *answerRepository) ListByQuizIDs(ctx context.Context, quizIDs []int) ([]model.Answer, error) {
	if len(quizIDs) == 0 {
		return []model.Answer{}, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+answerColumns+` FROM answers WHERE quiz_id = ANY($1) ORDER BY quiz_id ASC, id ASC`, quizIDs)
	if err != nil {
		return nil, err
	}
	return scanAnswers(rows)
}

func (r *answerRepository) GetByID(ctx context.Context, id int) (*model.Answer, error) {
	a := &model.Answer{}
	err := r.db.QueryRow(ctx, `SELECT `+answerColumns+` FROM answers WHERE id = $1`, id).
		Scan(&a.ID, &a.QuizID, &a.Title, &a.IsCorrect, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return a, nil
}

func (r *answerRepository) GetInQuiz(ctx context.Context, quizID, id int) (*model.Answer, error) {
	a := &model.Answer{}
	err := r.db.QueryRow(ctx, `SELECT `+answerColumns+` FROM answers WHERE id = $1 AND quiz_id = $2`, id, quizID).
		Scan(&a.ID, &a.QuizID, &a.Title, &a.IsCorrect, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return a, nil
}

func (r *answerRepository) Create(ctx context.Context, answer *model.Answer) error {
	query := `
		INSERT INTO answers (quiz_id, title, is_correct)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, answer.QuizID, answer.Title, answer.IsCorrect).
		Scan(&answer.ID, &answer.CreatedAt, &answer.UpdatedAt)
	return translate(err)
}

func (r *answerRepository) UpdateTitle(ctx context.Context, answer *model.Answer) error {
	query := `
		UPDATE answers
		SET title = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND quiz_id = $3
		RETURNING is_correct, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, answer.Title, answer.ID, answer.QuizID).
		Scan(&answer.IsCorrect, &answer.CreatedAt, &answer.UpdatedAt)
	return translate(err)
}

func (r *answerRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM answers WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetCorrect flags one answer as correct. Other answers of the quiz keep their flag.
func (r *answerRepository) SetCorrect(ctx context.Context, quizID, id int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE answers SET is_correct = TRUE, updated_at = CURRENT_TIMESTAMP WHERE id = $1 AND quiz_id = $2`,
		id, quizID)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountCorrect counts distinct correct answers among ids, across all quizzes.
func (r *answerRepository) CountCorrect(ctx context.Context, ids []int) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM answers WHERE id = ANY($1) AND is_correct = TRUE`, ids).Scan(&n)
	return n, err
}

func scanAnswers(rows pgx.Rows) ([]model.Answer, error) {
	defer rows.Close()

	answers := []model.Answer{}
	for rows.Next() {
		var a model.Answer
		if err := rows.Scan(&a.ID, &a.QuizID, &a.Title, &a.IsCorrect, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}
