package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Aisenh037/MBC-sub002/config"
	logger "github.com/Aisenh037/MBC-sub002/logging"
	"github.com/Aisenh037/MBC-sub002/util"
)

const requestIDKey = "requestID"

// RequestID assigns every request a correlation id, echoed in the
// X-Request-ID response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// RequestIDFromContext returns the request's correlation id.
func RequestIDFromContext(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// Recovery normalizes panics into the standard error envelope. Full context
// is logged; the stack trace reaches the client only outside production.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				requestID := RequestIDFromContext(c)
				stack := debug.Stack()
				logger.Error("Panic recovered",
					zap.Any("panic", r),
					zap.String("requestID", requestID),
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method),
					zap.String("ip", c.ClientIP()),
					zap.String("user-agent", c.Request.UserAgent()),
					zap.ByteString("stack", stack))

				resp := util.Response{
					Success: false,
					Error:   "internal server error",
					Message: requestID,
				}
				if !config.IsProduction() {
					resp.Error = map[string]interface{}{
						"message": "internal server error",
						"stack":   string(stack),
					}
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
			}
		}()
		c.Next()
	}
}
