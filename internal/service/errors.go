package service

import (
	"fmt"

	"github.com/stemsi/quiz-backend/internal/repository"
	"github.com/stemsi/quiz-backend/internal/validator"
)

// Domain Errors
var (
	// ErrNotFound marks a quiz or answer id that does not resolve.
	ErrNotFound = repository.ErrNotFound
)

// Uniqueness scopes used by the quiz and answer rules.
func quizTitleRule(excludeID int) validator.Unique {
	return validator.Unique{
		Field:     "title",
		Scope:     validator.Scope{Table: "quizzes"},
		ExcludeID: excludeID,
	}
}

func answerTitleRule(quizID, excludeID int) validator.Unique {
	return validator.Unique{
		Field:     "title",
		Scope:     validator.Scope{Table: "answers", Column: "quiz_id", Value: quizID},
		ExcludeID: excludeID,
		Message:   answerTitleTaken(quizID),
	}
}

func answerTitleTaken(quizID int) string {
	return fmt.Sprintf("Title is already taken against Question id: %d", quizID)
}

// duplicateTitle is returned when the unique index rejects a write that
// slipped past the pre-check.
func duplicateTitle(rule validator.Unique) error {
	return &validator.Error{Field: rule.Field, Message: rule.ErrorMessage()}
}
