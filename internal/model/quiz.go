package model

import (
	"time"

	"github.com/stemsi/quiz-backend/internal/validator"
)

// Quiz is a question-like entity owning a set of candidate answers.
type Quiz struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	IsMandatory bool      `json:"is_mandatory"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Answers is populated only when the caller asks for eager loading.
	// The API layer decides whether to render it.
	Answers []Answer `json:"-"`
}

// QuizFilter narrows a quiz listing. Zero values disable each filter.
type QuizFilter struct {
	WithAnswers bool
	Status      string
}

// CreateQuizRequest is the payload for creating a quiz. Status is an opaque
// tag; numbers and booleans are kept in their text form.
type CreateQuizRequest struct {
	validator.Fields `json:"-"`

	Title       string         `json:"title" validate:"required"`
	Description string         `json:"description" validate:"required"`
	Status      validator.Text `json:"status" validate:"required"`
}

// UpdateQuizRequest is the payload for updating a quiz.
// An empty Status keeps the stored value.
type UpdateQuizRequest struct {
	validator.Fields `json:"-"`

	Title       string         `json:"title" validate:"required"`
	Description string         `json:"description" validate:"required"`
	Status      validator.Text `json:"status"`
}

// MandatoryRequest is the payload of PUT /quiz/mandatory. QuizID accepts a
// JSON number or a numeric string.
type MandatoryRequest struct {
	QuizID any `json:"quiz_id"`
}
