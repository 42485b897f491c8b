package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/quiz-backend/internal/model"
	"github.com/stemsi/quiz-backend/internal/response"
	"github.com/stemsi/quiz-backend/internal/service"
	"github.com/stemsi/quiz-backend/internal/validator"
)

// ScoreHandler scores submitted answer sets.
type ScoreHandler struct {
	scoreService *service.ScoreService
	errs         *ErrorResponder
}

// NewScoreHandler creates a new ScoreHandler.
func NewScoreHandler(scoreService *service.ScoreService, errs *ErrorResponder) *ScoreHandler {
	return &ScoreHandler{scoreService: scoreService, errs: errs}
}

// answerIDs keeps the entries that can name an answer. The rest match no row.
func answerIDs(raw []any) []int {
	ids := make([]int, 0, len(raw))
	for _, v := range raw {
		if id, ok := parseID(v); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// Submit godoc
// POST /quiz/submit
// Body: {"answers": [1, 4, 7]}
func (h *ScoreHandler) Submit(c *gin.Context) {
	var req model.SubmitRequest
	if err := validator.Bind(c, &req); err != nil {
		h.errs.Respond(c, err)
		return
	}

	result, err := h.scoreService.Submit(c.Request.Context(), answerIDs(req.Answers), response.RequestID(c))
	if err != nil {
		h.errs.Respond(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}
