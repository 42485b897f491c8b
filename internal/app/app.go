// Package app assembles repositories, services, handlers and the router.
package app

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/quiz-backend/internal/config"
	"github.com/stemsi/quiz-backend/internal/handler"
	"github.com/stemsi/quiz-backend/internal/monitoring"
	"github.com/stemsi/quiz-backend/internal/repository"
	"github.com/stemsi/quiz-backend/internal/repository/memory"
	"github.com/stemsi/quiz-backend/internal/router"
	"github.com/stemsi/quiz-backend/internal/service"
	"github.com/stemsi/quiz-backend/internal/validator"
)

// Storage is the set of repositories one backend provides.
type Storage struct {
	Quizzes     repository.QuizRepository
	Answers     repository.AnswerRepository
	Submissions repository.SubmissionRepository
	Uniqueness  validator.UniquenessChecker
}

// PostgresStorage returns the pgx-backed repositories.
func PostgresStorage(pool *pgxpool.Pool) Storage {
	return Storage{
		Quizzes:     repository.NewQuizRepository(pool),
		Answers:     repository.NewAnswerRepository(pool),
		Submissions: repository.NewSubmissionRepository(pool),
		Uniqueness:  repository.NewUniqueChecker(pool),
	}
}

// MemoryStorage returns repositories over an in-process store.
func MemoryStorage(store *memory.Store) Storage {
	return Storage{
		Quizzes:     store.Quizzes(),
		Answers:     store.Answers(),
		Submissions: store.Submissions(),
		Uniqueness:  store,
	}
}

// Deps are the collaborators the HTTP layer is built from. Everything but
// Storage is optional.
type Deps struct {
	Storage Storage
	Redis   *redis.Client
	Metrics *monitoring.Metrics
	Checks  []handler.HealthCheck
}

// NewEngine builds services, handlers and the gin engine over deps.
func NewEngine(cfg *config.Config, log zerolog.Logger, deps Deps) *gin.Engine {
	validator.Setup()
	v := validator.New(deps.Storage.Uniqueness)

	var recorder service.SubmissionRecorder
	if deps.Redis != nil {
		recorder = service.NewRedisSubmissionRecorder(deps.Redis)
	}
	var observer service.SubmissionObserver
	if deps.Metrics != nil {
		observer = deps.Metrics
	}

	// ─── Initialize Services ──────────────────────────────────────────
	quizService := service.NewQuizService(deps.Storage.Quizzes, deps.Storage.Answers, v, log)
	answerService := service.NewAnswerService(deps.Storage.Quizzes, deps.Storage.Answers, v, log)
	scoreService := service.NewScoreService(deps.Storage.Answers, recorder, observer, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	errs := handler.NewErrorResponder(log, cfg.RedactInternalErrors)
	handlers := &router.Handlers{
		Quiz:   handler.NewQuizHandler(quizService, errs),
		Answer: handler.NewAnswerHandler(answerService, errs),
		Score:  handler.NewScoreHandler(scoreService, errs),
		System: handler.NewSystemHandler(deps.Redis, log, deps.Checks...),
	}

	return router.SetupRouter(handlers, cfg, log, router.Options{Metrics: deps.Metrics})
}
