// Package memory is an in-process implementation of the repository
// interfaces. It enforces the same unique keys and cascade rules as the
// PostgreSQL schema so services behave identically on top of it.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/stemsi/quiz-backend/internal/model"
	"github.com/stemsi/quiz-backend/internal/repository"
	"github.com/stemsi/quiz-backend/internal/validator"
)

// Store holds every table behind one lock.
type Store struct {
	mu           sync.RWMutex
	quizzes      map[int]model.Quiz
	answers      map[int]model.Answer
	submissions  []model.Submission
	nextQuizID   int
	nextAnswerID int
	now          func() time.Time
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		quizzes: make(map[int]model.Quiz),
		answers: make(map[int]model.Answer),
		now:     time.Now,
	}
}

// Quizzes returns the QuizRepository view of the store.
func (s *Store) Quizzes() repository.QuizRepository { return &quizRepo{s} }

// Answers returns the AnswerRepository view of the store.
func (s *Store) Answers() repository.AnswerRepository { return &answerRepo{s} }

// Submissions returns the SubmissionRepository view of the store.
func (s *Store) Submissions() repository.SubmissionRepository { return &submissionRepo{s} }

// SubmissionLog returns a copy of every stored submission.
func (s *Store) SubmissionLog() []model.Submission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Submission, len(s.submissions))
	copy(out, s.submissions)
	return out
}

// IsUniqueWithin implements validator.UniquenessChecker.
func (s *Store) IsUniqueWithin(_ context.Context, scope validator.Scope, field, value string, excludeID int) (bool, error) {
	if field != "title" {
		return false, fmt.Errorf("uniqueness lookup on %s.%s is not allowed", scope.Table, field)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	switch scope.Table {
	case "quizzes":
		for id, q := range s.quizzes {
			if id != excludeID && q.Title == value {
				return false, nil
			}
		}
		return true, nil
	case "answers":
		for id, a := range s.answers {
			if id == excludeID || a.Title != value {
				continue
			}
			if scope.Column == "quiz_id" && fmt.Sprint(a.QuizID) != fmt.Sprint(scope.Value) {
				continue
			}
			return false, nil
		}
		return true, nil
	default:
		return false, fmt.Errorf("uniqueness lookup on %s.%s is not allowed", scope.Table, field)
	}
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

type quizRepo struct{ s *Store }

func (r *quizRepo) List(_ context.Context, filter model.QuizFilter) ([]model.Quiz, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	quizzes := []model.Quiz{}
	for _, id := range sortedKeys(r.s.quizzes) {
		q := r.s.quizzes[id]
		if filter.Status != "" && q.Status != filter.Status {
			continue
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, nil
}

func (r *quizRepo) GetByID(_ context.Context, id int) (*model.Quiz, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	q, ok := r.s.quizzes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &q, nil
}

func (r *quizRepo) Create(_ context.Context, quiz *model.Quiz) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.quizTitleTaken(quiz.Title, 0) {
		return fmt.Errorf("%w: quizzes_title_key", repository.ErrDuplicate)
	}
	r.s.nextQuizID++
	now := r.s.now()
	quiz.ID = r.s.nextQuizID
	quiz.CreatedAt, quiz.UpdatedAt = now, now
	stored := *quiz
	stored.Answers = nil
	r.s.quizzes[quiz.ID] = stored
	return nil
}

func (r *quizRepo) Update(_ context.Context, quiz *model.Quiz) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.quizzes[quiz.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if r.s.quizTitleTaken(quiz.Title, quiz.ID) {
		return fmt.Errorf("%w: quizzes_title_key", repository.ErrDuplicate)
	}
	cur.Title = quiz.Title
	cur.Description = quiz.Description
	cur.Status = quiz.Status
	cur.UpdatedAt = r.s.now()
	r.s.quizzes[quiz.ID] = cur

	quiz.IsMandatory = cur.IsMandatory
	quiz.CreatedAt = cur.CreatedAt
	quiz.UpdatedAt = cur.UpdatedAt
	return nil
}

// Delete removes the quiz and cascades to its answers.
func (r *quizRepo) Delete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.quizzes[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.quizzes, id)
	for aid, a := range r.s.answers {
		if a.QuizID == id {
			delete(r.s.answers, aid)
		}
	}
	return nil
}

func (r *quizRepo) SetMandatory(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	q, ok := r.s.quizzes[id]
	if !ok {
		return repository.ErrNotFound
	}
	q.IsMandatory = true
	q.UpdatedAt = r.s.now()
	r.s.quizzes[id] = q
	return nil
}

func (s *Store) quizTitleTaken(title string, excludeID int) bool {
	for id, q := range s.quizzes {
		if id != excludeID && q.Title == title {
			return true
		}
	}
	return false
}

func (s *Store) answerTitleTaken(quizID int, title string, excludeID int) bool {
	for id, a := range s.answers {
		if id != excludeID && a.QuizID == quizID && a.Title == title {
			return true
		}
	}
	return false
}

type answerRepo struct{ s *Store }

func (r *answerRepo) ListByQuiz(ctx context.Context, quizID int) ([]model.Answer, error) {
	return r.ListByQuizIDs(ctx, []int{quizID})
}

func (r *answerRepo) ListByQuizIDs(_ context.Context, quizIDs []int) ([]model.Answer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	wanted := make(map[int]bool, len(quizIDs))
	for _, id := range quizIDs {
		wanted[id] = true
	}
	answers := []model.Answer{}
	for _, id := range sortedKeys(r.s.answers) {
		if a := r.s.answers[id]; wanted[a.QuizID] {
			answers = append(answers, a)
		}
	}
	sort.SliceStable(answers, func(i, j int) bool { return answers[i].QuizID < answers[j].QuizID })
	return answers, nil
}

func (r *answerRepo) GetByID(_ context.Context, id int) (*model.Answer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.answers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (r *answerRepo) GetInQuiz(_ context.Context, quizID, id int) (*model.Answer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.answers[id]
	if !ok || a.QuizID != quizID {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (r *answerRepo) Create(_ context.Context, answer *model.Answer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.quizzes[answer.QuizID]; !ok {
		return fmt.Errorf("%w: answers_quiz_id_fkey", repository.ErrNotFound)
	}
	if r.s.answerTitleTaken(answer.QuizID, answer.Title, 0) {
		return fmt.Errorf("%w: answers_quiz_id_title_key", repository.ErrDuplicate)
	}
	r.s.nextAnswerID++
	now := r.s.now()
	answer.ID = r.s.nextAnswerID
	answer.CreatedAt, answer.UpdatedAt = now, now
	r.s.answers[answer.ID] = *answer
	return nil
}

func (r *answerRepo) UpdateTitle(_ context.Context, answer *model.Answer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.answers[answer.ID]
	if !ok || cur.QuizID != answer.QuizID {
		return repository.ErrNotFound
	}
	if r.s.answerTitleTaken(cur.QuizID, answer.Title, cur.ID) {
		return fmt.Errorf("%w: answers_quiz_id_title_key", repository.ErrDuplicate)
	}
	cur.Title = answer.Title
	cur.UpdatedAt = r.s.now()
	r.s.answers[cur.ID] = cur
	*answer = cur
	return nil
}

func (r *answerRepo) Delete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.answers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.answers, id)
	return nil
}

func (r *answerRepo) SetCorrect(_ context.Context, quizID, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.answers[id]
	if !ok || a.QuizID != quizID {
		return repository.ErrNotFound
	}
	a.IsCorrect = true
	a.UpdatedAt = r.s.now()
	r.s.answers[id] = a
	return nil
}

func (r *answerRepo) CountCorrect(_ context.Context, ids []int) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	seen := make(map[int]bool, len(ids))
	n := 0
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if a, ok := r.s.answers[id]; ok && a.IsCorrect {
			n++
		}
	}
	return n, nil
}

type submissionRepo struct{ s *Store }

func (r *submissionRepo) Insert(_ context.Context, sub *model.Submission) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sub.ID = int64(len(r.s.submissions) + 1)
	r.s.submissions = append(r.s.submissions, *sub)
	return nil
}

func (r *submissionRepo) InsertBatch(ctx context.Context, subs []model.Submission) error {
	for i := range subs {
		if err := r.Insert(ctx, &subs[i]); err != nil {
			return err
		}
	}
	return nil
}
