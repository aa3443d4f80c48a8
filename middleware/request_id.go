package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kendall-kelly/complaint-desk-api/logger"
	"github.com/kendall-kelly/complaint-desk-api/response"
	"go.uber.org/zap"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestID reuses an incoming X-Request-ID or generates one, echoes it in the response,
// and attaches a request-scoped logger to the context.
func RequestID(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.New().String()
		}

		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Set(response.LoggerKey, logger.WithRequestID(log, requestID))

		c.Next()
	}
}

// GetRequestID returns the current request's ID
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
