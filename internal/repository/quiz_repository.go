package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/quiz-backend/internal/model"
)

const quizColumns = `id, title, description, status, is_mandatory, created_at, updated_at`

type quizRepository struct {
	db *pgxpool.Pool
}

// NewQuizRepository returns the PostgreSQL-backed QuizRepository.
func NewQuizRepository(db *pgxpool.Pool) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) List(ctx context.Context, filter model.QuizFilter) ([]model.Quiz, error) {
	query := `SELECT ` + quizColumns + ` FROM quizzes`
	var args []any
	if filter.Status != "" {
		query += ` WHERE status = $1`
		args = append(args, filter.Status)
	}
	query += ` ORDER BY id ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quizzes := []model.Quiz{}
	for rows.Next() {
		var q model.Quiz
		if err := rows.Scan(&q.ID, &q.Title, &q.Description, &q.Status, &q.IsMandatory, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

func (r *quizRepository) GetByID(ctx context.Context, id int) (*model.Quiz, error) {
	q := &model.Quiz{}
	err := r.db.QueryRow(ctx, `SELECT `+quizColumns+` FROM quizzes WHERE id = $1`, id).
		Scan(&q.ID, &q.Title, &q.Description, &q.Status, &q.IsMandatory, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return q, nil
}

func (r *quizRepository) Create(ctx context.Context, quiz *model.Quiz) error {
	query := `
		INSERT INTO quizzes (title, description, status, is_mandatory)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, quiz.Title, quiz.Description, quiz.Status, quiz.IsMandatory).
		Scan(&quiz.ID, &quiz.CreatedAt, &quiz.UpdatedAt)
	return translate(err)
}

func (r *quizRepository) Update(ctx context.Context, quiz *model.Quiz) error {
	query := `
		UPDATE quizzes
		SET title = $1, description = $2, status = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
		RETURNING is_mandatory, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, quiz.Title, quiz.Description, quiz.Status, quiz.ID).
		Scan(&quiz.IsMandatory, &quiz.CreatedAt, &quiz.UpdatedAt)
	return translate(err)
}

// Delete removes a quiz; its answers go with it through ON DELETE CASCADE.
func (r *quizRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *quizRepository) SetMandatory(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE quizzes SET is_mandatory = TRUE, updated_at = CURRENT_TIMESTAMP WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
