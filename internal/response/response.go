package response

import (
	"github.com/gin-gonic/gin"
)

// Response is the envelope every endpoint answers with. Success carries the
// HTTP status code; Errors is null on success.
type Response struct {
	Success int         `json:"success"`
	Errors  *string     `json:"errors"`
	Data    interface{} `json:"data"`
}

// Success sends data with the given status code.
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Response{
		Success: statusCode,
		Data:    data,
	})
}

// Fail sends the canned message for code.
func Fail(c *gin.Context, statusCode int, code ErrCode) {
	FailWithMessage(c, statusCode, GetMessage(code))
}

// FailWithMessage sends an error response carrying msg.
func FailWithMessage(c *gin.Context, statusCode int, msg string) {
	c.JSON(statusCode, Response{
		Success: statusCode,
		Errors:  &msg,
	})
}

// AbortFail aborts the middleware chain and sends an error response.
func AbortFail(c *gin.Context, statusCode int, code ErrCode) {
	msg := GetMessage(code)
	c.AbortWithStatusJSON(statusCode, Response{
		Success: statusCode,
		Errors:  &msg,
	})
}

// RequestID returns the id assigned by RequestIDMiddleware, or "".
func RequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}
