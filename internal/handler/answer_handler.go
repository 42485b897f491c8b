package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/quiz-backend/internal/model"
	"github.com/stemsi/quiz-backend/internal/response"
	"github.com/stemsi/quiz-backend/internal/service"
	"github.com/stemsi/quiz-backend/internal/validator"
)

// AnswerHandler exposes the answers of a quiz.
type AnswerHandler struct {
	answerService *service.AnswerService
	errs          *ErrorResponder
}

// NewAnswerHandler creates a new AnswerHandler.
func NewAnswerHandler(answerService *service.AnswerService, errs *ErrorResponder) *AnswerHandler {
	return &AnswerHandler{answerService: answerService, errs: errs}
}

// List godoc
// GET /quiz/:quiz_id/answers
// An unknown or malformed quiz id lists nothing rather than failing.
func (h *AnswerHandler) List(c *gin.Context) {
	quizID, ok := pathID(c, "quiz_id")
	if !ok {
		response.Success(c, http.StatusOK, []model.Answer{})
		return
	}

	answers, err := h.answerService.List(c.Request.Context(), quizID)
	if err != nil {
		h.errs.Respond(c, err)
		return
	}
	response.Success(c, http.StatusOK, answers)
}

// Create godoc
// POST /quiz/:quiz_id/answers
func (h *AnswerHandler) Create(c *gin.Context) {
	quizID, ok := pathID(c, "quiz_id")
	if !ok {
		h.errs.NotFound(c)
		return
	}

	var req model.AnswerRequest
	if err := validator.Bind(c, &req); err != nil {
		h.errs.Respond(c, err)
		return
	}

	answer, err := h.answerService.Create(c.Request.Context(), quizID, req)
	if err != nil {
		h.errs.Respond(c, err)
		return
	}
	response.Success(c, http.StatusOK, answer)
}

// Update godoc
// PUT|PATCH /quiz/:quiz_id/answers/:id
func (h *AnswerHandler) Update(c *gin.Context) {
	quizID, ok := pathID(c, "quiz_id")
	if !ok {
		h.errs.NotFound(c)
		return
	}
	answerID, ok := pathID(c, "id")
	if !ok {
		h.errs.NotFound(c)
		return
	}

	var req model.AnswerRequest
	if err := validator.Bind(c, &req); err != nil {
		h.errs.Respond(c, err)
		return
	}

	answer, err := h.answerService.Update(c.Request.Context(), quizID, answerID, req)
	if err != nil {
		h.errs.Respond(c, err)
		return
	}
	response.Success(c, http.StatusOK, answer)
}

// Delete godoc
// DELETE /answers/:id
func (h *AnswerHandler) Delete(c *gin.Context) {
	answerID, ok := pathID(c, "id")
	if !ok {
		h.errs.NotFound(c)
		return
	}

	if err := h.answerService.Delete(c.Request.Context(), answerID); err != nil {
		h.errs.Respond(c, err)
		return
	}
	response.Success(c, http.StatusOK, nil)
}

// RightAnswer godoc
// PUT /quiz/:quiz_id/answer/right-answer
// Body: {"answer_id": 3}
func (h *AnswerHandler) RightAnswer(c *gin.Context) {
	quizID, ok := pathID(c, "quiz_id")
	if !ok {
		h.errs.NotFound(c)
		return
	}

	var req model.RightAnswerRequest
	if err := validator.Bind(c, &req); err != nil {
		h.errs.Respond(c, err)
		return
	}
	answerID, ok := parseID(req.AnswerID)
	if !ok {
		h.errs.NotFound(c)
		return
	}

	answer, err := h.answerService.MarkCorrect(c.Request.Context(), quizID, answerID)
	if err != nil {
		h.errs.Respond(c, err)
		return
	}
	response.Success(c, http.StatusOK, answer)
}
