package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/complaint-desk-api/apperror"
	"github.com/kendall-kelly/complaint-desk-api/response"
	"go.uber.org/zap"
)

// Recovery turns a panic in a handler into a 500 envelope
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				response.Logger(c).Error("Panic recovered",
					zap.Any("error", err),
					zap.ByteString("stack", debug.Stack()),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.String("client_ip", c.ClientIP()),
				)
				response.Abort(c, apperror.Internal("Internal server error", fmt.Errorf("panic: %v", err)))
			}
		}()

		c.Next()
	}
}
