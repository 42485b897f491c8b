package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/quiz-backend/internal/config"
	"github.com/stemsi/quiz-backend/internal/handler"
	"github.com/stemsi/quiz-backend/internal/middleware"
	"github.com/stemsi/quiz-backend/internal/monitoring"
	"github.com/stemsi/quiz-backend/internal/response"
	"github.com/stemsi/quiz-backend/internal/tracing"
)

const metricsPath = "/metrics"

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Quiz   *handler.QuizHandler
	Answer *handler.AnswerHandler
	Score  *handler.ScoreHandler
	System *handler.SystemHandler
}

// Options carries the optional pieces of the middleware stack.
type Options struct {
	// Metrics enables the Prometheus middleware and /metrics when set.
	Metrics *monitoring.Metrics
}

// SetupRouter configures the middleware stack and every route.
func SetupRouter(handlers *Handlers, cfg *config.Config, log zerolog.Logger, opts Options) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.HandleMethodNotAllowed = true

	// Request ID first so recovery and access logs can reference it.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.Recovery(log))
	router.Use(middleware.AccessLog(log))

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	if cfg.TracingEnabled {
		router.Use(tracing.GinMiddleware())
	}
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware())
		router.GET(metricsPath, opts.Metrics.Handler())
	}

	router.Use(middleware.Brotli(cfg.BrotliMinLength, metricsPath))

	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, response.ErrRouteNotFound)
	})
	router.NoMethod(func(c *gin.Context) {
		response.Fail(c, http.StatusMethodNotAllowed, response.ErrMethod)
	})

	router.GET("/health", handlers.System.Health)

	// The same API answers at the root and under /api.
	registerQuizRoutes(router.Group(""), handlers)
	registerQuizRoutes(router.Group("/api"), handlers)

	return router
}

func registerQuizRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	rg.Use(middleware.CacheControl(middleware.NoStore))

	// ─── Quizzes ───────────────────────────────────────────────────────
	rg.GET("/quizzes", handlers.Quiz.List)
	rg.POST("/quizzes", handlers.Quiz.Create)
	rg.PUT("/quizzes/:id", handlers.Quiz.Update)
	rg.PATCH("/quizzes/:id", handlers.Quiz.Update)
	rg.DELETE("/quizzes/:id", handlers.Quiz.Delete)
	rg.PUT("/quiz/mandatory", handlers.Quiz.Mandatory)

	// ─── Scoring ───────────────────────────────────────────────────────
	rg.POST("/quiz/submit", handlers.Score.Submit)

	// ─── Answers ───────────────────────────────────────────────────────
	rg.GET("/quiz/:quiz_id/answers", handlers.Answer.List)
	rg.POST("/quiz/:quiz_id/answers", handlers.Answer.Create)
	rg.PUT("/quiz/:quiz_id/answers/:id", handlers.Answer.Update)
	rg.PATCH("/quiz/:quiz_id/answers/:id", handlers.Answer.Update)
	rg.PUT("/quiz/:quiz_id/answer/right-answer", handlers.Answer.RightAnswer)
	rg.DELETE("/answers/:id", handlers.Answer.Delete)
}
