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

// QuizService handles quiz CRUD and the mandatory flag.
type QuizService struct {
	quizRepo   repository.QuizRepository
	answerRepo repository.AnswerRepository
	validator  *validator.Validator
	log        zerolog.Logger
}

// NewQuizService creates a new QuizService.
func NewQuizService(
	quizRepo repository.QuizRepository,
	answerRepo repository.AnswerRepository,
	v *validator.Validator,
	log zerolog.Logger,
) *QuizService {
	return &QuizService{
		quizRepo:   quizRepo,
		answerRepo: answerRepo,
		validator:  v,
		log:        log.With().Str("component", "quiz_service").Logger(),
	}
}

// List returns every quiz matching filter, with answers attached when
// filter.WithAnswers is set.
func (s *QuizService) List(ctx context.Context, filter model.QuizFilter) ([]model.Quiz, error) {
	quizzes, err := s.quizRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	if !filter.WithAnswers || len(quizzes) == 0 {
		return quizzes, nil
	}

	ids := make([]int, len(quizzes))
	for i, q := range quizzes {
		ids[i] = q.ID
	}
	answers, err := s.answerRepo.ListByQuizIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load answers: %w", err)
	}

	byQuiz := make(map[int][]model.Answer, len(quizzes))
	for _, a := range answers {
		byQuiz[a.QuizID] = append(byQuiz[a.QuizID], a)
	}
	for i := range quizzes {
		quizzes[i].Answers = byQuiz[quizzes[i].ID]
		if quizzes[i].Answers == nil {
			quizzes[i].Answers = []model.Answer{}
		}
	}
	return quizzes, nil
}

// Create validates and stores a new, non-mandatory quiz.
func (s *QuizService) Create(ctx context.Context, req model.CreateQuizRequest) (*model.Quiz, error) {
	if err := s.validator.Check(ctx, &req, quizTitleRule(0)); err != nil {
		return nil, err
	}

	quiz := &model.Quiz{
		Title:       req.Title,
		Description: req.Description,
		Status:      string(req.Status),
		IsMandatory: false,
	}
	if err := s.quizRepo.Create(ctx, quiz); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, duplicateTitle(quizTitleRule(0))
		}
		return nil, fmt.Errorf("create quiz: %w", err)
	}

	s.log.Info().Int("quiz_id", quiz.ID).Msg("Quiz created")
	return quiz, nil
}

// Update replaces title and description. Status changes only when a new
// value is supplied.
func (s *QuizService) Update(ctx context.Context, id int, req model.UpdateQuizRequest) (*model.Quiz, error) {
	if err := s.validator.Check(ctx, &req, quizTitleRule(id)); err != nil {
		return nil, err
	}

	quiz, err := s.quizRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get quiz %d: %w", id, err)
	}

	quiz.Title = req.Title
	quiz.Description = req.Description
	if req.Status != "" {
		quiz.Status = string(req.Status)
	}

	if err := s.quizRepo.Update(ctx, quiz); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, duplicateTitle(quizTitleRule(id))
		}
		return nil, fmt.Errorf("update quiz %d: %w", id, err)
	}
	return quiz, nil
}

// Delete removes a quiz. Its answers are removed by the store's cascade rule.
func (s *QuizService) Delete(ctx context.Context, id int) error {
	if err := s.quizRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete quiz %d: %w", id, err)
	}
	s.log.Info().Int("quiz_id", id).Msg("Quiz deleted")
	return nil
}

// MarkMandatory sets is_mandatory and returns the quiz as stored afterwards.
func (s *QuizService) MarkMandatory(ctx context.Context, id int) (*model.Quiz, error) {
	if err := s.quizRepo.SetMandatory(ctx, id); err != nil {
		return nil, fmt.Errorf("mark quiz %d mandatory: %w", id, err)
	}
	quiz, err := s.quizRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload quiz %d: %w", id, err)
	}
	return quiz, nil
}
