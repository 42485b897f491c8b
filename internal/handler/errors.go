package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/quiz-backend/internal/response"
	"github.com/stemsi/quiz-backend/internal/service"
	"github.com/stemsi/quiz-backend/internal/validator"
)

// ErrorResponder maps service errors onto the response envelope.
type ErrorResponder struct {
	log    zerolog.Logger
	redact bool
}

// NewErrorResponder creates a new ErrorResponder. When redact is set,
// internal error details never reach the client.
func NewErrorResponder(log zerolog.Logger, redact bool) *ErrorResponder {
	return &ErrorResponder{
		log:    log.With().Str("component", "http").Logger(),
		redact: redact,
	}
}

// Respond writes err as a 422, 404 or 500 response.
func (r *ErrorResponder) Respond(c *gin.Context, err error) {
	var ve *validator.Error
	switch {
	case errors.Is(err, validator.ErrMalformedBody):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrInvalidPayload)
	case errors.As(err, &ve):
		response.FailWithMessage(c, http.StatusUnprocessableEntity, ve.Message)
	case errors.Is(err, service.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	default:
		r.log.Error().Err(err).
			Str("request_id", response.RequestID(c)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
		if r.redact {
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}
		response.FailWithMessage(c, http.StatusInternalServerError, err.Error())
	}
}

// NotFound writes the canned 404.
func (r *ErrorResponder) NotFound(c *gin.Context) {
	response.Fail(c, http.StatusNotFound, response.ErrNotFound)
}
