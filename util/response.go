package util

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	logger "github.com/Aisenh037/MBC-sub002/logging"
)

// Response is the envelope returned by every endpoint.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

func RespondOK(c *gin.Context, code int, data interface{}) {
	c.JSON(code, Response{Success: true, Data: data})
}

func RespondMessage(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, Response{Success: true, Data: data, Message: message})
}

func RespondWithError(c *gin.Context, code int, message string, err error) {
	fields := []zap.Field{
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	logger.Error(message, fields...)
	c.JSON(code, Response{Success: false, Error: message})
}

// RespondWithReason emits the envelope with a machine-readable reason
// string, used by the authentication/authorization chain.
func RespondWithReason(c *gin.Context, code int, reason, message string) {
	c.AbortWithStatusJSON(code, Response{Success: false, Error: reason, Message: message})
}

// RespondValidationError carries the per-field detail list.
func RespondValidationError(c *gin.Context, details []FieldError) {
	c.JSON(400, Response{Success: false, Error: details, Message: "validation failed"})
}
