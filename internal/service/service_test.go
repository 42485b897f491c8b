package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stemsi/quiz-backend/internal/model"
	"github.com/stemsi/quiz-backend/internal/repository/memory"
	"github.com/stemsi/quiz-backend/internal/validator"
)

type services struct {
	store   *memory.Store
	quiz    *QuizService
	answer  *AnswerService
	score   *ScoreService
	records *recordedSubmissions
}

func newServices(t *testing.T) *services {
	t.Helper()
	store := memory.NewStore()
	v := validator.New(store)
	log := zerolog.Nop()
	rec := &recordedSubmissions{}
	return &services{
		store:   store,
		quiz:    NewQuizService(store.Quizzes(), store.Answers(), v, log),
		answer:  NewAnswerService(store.Quizzes(), store.Answers(), v, log),
		score:   NewScoreService(store.Answers(), rec, nil, log),
		records: rec,
	}
}

func (s *services) mustQuiz(t *testing.T, title string) *model.Quiz {
	t.Helper()
	q, err := s.quiz.Create(context.Background(), model.CreateQuizRequest{Title: title, Description: "D", Status: "draft"})
	if err != nil {
		t.Fatalf("create quiz %q: %v", title, err)
	}
	return q
}

func (s *services) mustAnswer(t *testing.T, quizID int, title string) *model.Answer {
	t.Helper()
	a, err := s.answer.Create(context.Background(), quizID, model.AnswerRequest{Title: title})
	if err != nil {
		t.Fatalf("create answer %q: %v", title, err)
	}
	return a
}

func assertValidation(t *testing.T, err error, contains string) {
	t.Helper()
	var ve *validator.Error
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(ve.Message, contains) {
		t.Fatalf("expected message containing %q, got %q", contains, ve.Message)
	}
}

func assertNotFound(t *testing.T, err error) {
	t.Helper()
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var ve *validator.Error
	if errors.As(err, &ve) {
		t.Fatalf("not-found must not be a validation error: %v", err)
	}
}
