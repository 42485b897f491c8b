package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/quiz-backend/internal/model"
	"github.com/stemsi/quiz-backend/internal/repository"
	"github.com/stemsi/quiz-backend/internal/validator"
)

// AnswerService handles answers scoped to a parent quiz.
type AnswerService struct {
	quizRepo   repository.QuizRepository
	answerRepo repository.AnswerRepository
	validator  *validator.Validator
	log        zerolog.Logger
}

// NewAnswerService creates a new AnswerService.
func NewAnswerService(
	quizRepo repository.QuizRepository,
	answerRepo repository.AnswerRepository,
	v *validator.Validator,
	log zerolog.Logger,
) *AnswerService {
	return &AnswerService{
		quizRepo:   quizRepo,
		answerRepo: answerRepo,
		validator:  v,
		log:        log.With().Str("component", "answer_service").Logger(),
	}
}

// List returns the answers whose quiz_id matches. The quiz itself is not
// looked up, so an unknown quiz yields an empty list.
func (s *AnswerService) List(ctx context.Context, quizID int) ([]model.Answer, error) {
	answers, err := s.answerRepo.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("list answers of quiz %d: %w", quizID, err)
	}
	return answers, nil
}

// Create adds an answer, not yet correct, to an existing quiz.
func (s *AnswerService) Create(ctx context.Context, quizID int, req model.AnswerRequest) (*model.Answer, error) {
	if _, err := s.quizRepo.GetByID(ctx, quizID); err != nil {
		return nil, fmt.Errorf("get quiz %d: %w", quizID, err)
	}

	rule := answerTitleRule(quizID, 0)
	if err := s.validator.Check(ctx, &req, rule); err != nil {
		return nil, err
	}

	answer := &model.Answer{QuizID: quizID, Title: req.Title, IsCorrect: false}
	if err := s.answerRepo.Create(ctx, answer); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, duplicateTitle(rule)
		}
		return nil, fmt.Errorf("create answer: %w", err)
	}

	s.log.Info().Int("quiz_id", quizID).Int("answer_id", answer.ID).Msg("Answer created")
	return answer, nil
}

// Update renames an answer that belongs to quizID.
func (s *AnswerService) Update(ctx context.Context, quizID, answerID int, req model.AnswerRequest) (*model.Answer, error) {
	answer, err := s.findInQuiz(ctx, quizID, answerID)
	if err != nil {
		return nil, err
	}

	rule := answerTitleRule(quizID, answerID)
	if err := s.validator.Check(ctx, &req, rule); err != nil {
		return nil, err
	}

	answer.Title = req.Title
	if err := s.answerRepo.UpdateTitle(ctx, answer); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, duplicateTitle(rule)
		}
		return nil, fmt.Errorf("update answer %d: %w", answerID, err)
	}
	return answer, nil
}

// Delete removes an answer by id alone.
func (s *AnswerService) Delete(ctx context.Context, answerID int) error {
	if err := s.answerRepo.Delete(ctx, answerID); err != nil {
		return fmt.Errorf("delete answer %d: %w", answerID, err)
	}
	return nil
}

// MarkCorrect flags answerID as correct and returns it as stored afterwards.
// Answers already flagged in the same quiz stay flagged.
func (s *AnswerService) MarkCorrect(ctx context.Context, quizID, answerID int) (*model.Answer, error) {
	if _, err := s.findInQuiz(ctx, quizID, answerID); err != nil {
		return nil, err
	}
	if err := s.answerRepo.SetCorrect(ctx, quizID, answerID); err != nil {
		return nil, fmt.Errorf("mark answer %d correct: %w", answerID, err)
	}

	answer, err := s.answerRepo.GetByID(ctx, answerID)
	if err != nil {
		return nil, fmt.Errorf("reload answer %d: %w", answerID, err)
	}
	s.log.Info().Int("quiz_id", quizID).Int("answer_id", answerID).Msg("Answer marked correct")
	return answer, nil
}

func (s *AnswerService) findInQuiz(ctx context.Context, quizID, answerID int) (*model.Answer, error) {
	if _, err := s.quizRepo.GetByID(ctx, quizID); err != nil {
		return nil, fmt.Errorf("get quiz %d: %w", quizID, err)
	}
	answer, err := s.answerRepo.GetInQuiz(ctx, quizID, answerID)
	if err != nil {
		return nil, fmt.Errorf("get answer %d of quiz %d: %w", answerID, quizID, err)
	}
	return answer, nil
}
