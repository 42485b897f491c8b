package model

import (
	"time"

	"github.com/stemsi/quiz-backend/internal/validator"
)

// Answer is a titled option belonging to exactly one quiz.
type Answer struct {
	ID        int       `json:"id"`
	QuizID    int       `json:"quiz_id"`
	Title     string    `json:"title"`
	IsCorrect bool      `json:"is_correct"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AnswerRequest is the payload for creating or renaming an answer.
type AnswerRequest struct {
	validator.Fields `json:"-"`

	Title string `json:"title" validate:"required"`
}

// RightAnswerRequest is the payload of PUT /quiz/:quiz_id/answer/right-answer.
// AnswerID accepts a JSON number or a numeric string.
type RightAnswerRequest struct {
	AnswerID any `json:"answer_id"`
}
