package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/quiz-backend/internal/model"
	"github.com/stemsi/quiz-backend/internal/response"
	"github.com/stemsi/quiz-backend/internal/service"
	"github.com/stemsi/quiz-backend/internal/validator"
)

// QuizHandler exposes quiz CRUD and the mandatory flag.
type QuizHandler struct {
	quizService *service.QuizService
	errs        *ErrorResponder
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService *service.QuizService, errs *ErrorResponder) *QuizHandler {
	return &QuizHandler{quizService: quizService, errs: errs}
}

// quizWithAnswers renders a quiz together with its eager-loaded answers.
type quizWithAnswers struct {
	model.Quiz
	Answers []model.Answer `json:"answers"`
}

// List godoc
// GET /quizzes?withAnswers=1&status=draft
func (h *QuizHandler) List(c *gin.Context) {
	filter := model.QuizFilter{
		WithAnswers: truthy(c.Query("withAnswers")),
		Status:      c.Query("status"),
	}

	quizzes, err := h.quizService.List(c.Request.Context(), filter)
	if err != nil {
		h.errs.Respond(c, err)
		return
	}

	if !filter.WithAnswers {
		response.Success(c, http.StatusOK, quizzes)
		return
	}
	out := make([]quizWithAnswers, len(quizzes))
	for i, q := range quizzes {
		out[i] = quizWithAnswers{Quiz: q, Answers: q.Answers}
	}
	response.Success(c, http.StatusOK, out)
}

// Create godoc
// POST /quizzes
func (h *QuizHandler) Create(c *gin.Context) {
	var req model.CreateQuizRequest
	if err := validator.Bind(c, &req); err != nil {
		h.errs.Respond(c, err)
		return
	}

	quiz, err := h.quizService.Create(c.Request.Context(), req)
	if err != nil {
		h.errs.Respond(c, err)
		return
	}
	response.Success(c, http.StatusOK, quiz)
}

// Update godoc
// PUT|PATCH /quizzes/:id
func (h *QuizHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.errs.NotFound(c)
		return
	}

	var req model.UpdateQuizRequest
	if err := validator.Bind(c, &req); err != nil {
		h.errs.Respond(c, err)
		return
	}

	quiz, err := h.quizService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.errs.Respond(c, err)
		return
	}
	response.Success(c, http.StatusOK, quiz)
}

// Delete godoc
// DELETE /quizzes/:id
func (h *QuizHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.errs.NotFound(c)
		return
	}

	if err := h.quizService.Delete(c.Request.Context(), id); err != nil {
		h.errs.Respond(c, err)
		return
	}
	response.Success(c, http.StatusOK, nil)
}

// Mandatory godoc
// PUT /quiz/mandatory
// Body: {"quiz_id": 1}
func (h *QuizHandler) Mandatory(c *gin.Context) {
	var req model.MandatoryRequest
	if err := validator.Bind(c, &req); err != nil {
		h.errs.Respond(c, err)
		return
	}
	id, ok := parseID(req.QuizID)
	if !ok {
		h.errs.NotFound(c)
		return
	}

	quiz, err := h.quizService.MarkMandatory(c.Request.Context(), id)
	if err != nil {
		h.errs.Respond(c, err)
		return
	}
	response.Success(c, http.StatusOK, quiz)
}
