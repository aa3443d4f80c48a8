package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/complaint-desk-api/apperror"
	"github.com/kendall-kelly/complaint-desk-api/metrics"
	"github.com/kendall-kelly/complaint-desk-api/response"
	"github.com/kendall-kelly/complaint-desk-api/services"
	"go.uber.org/zap"
)

// RateLimit rejects clients that exceed rule within its window, keyed by client IP.
// Limiter errors are logged and the request is let through.
func RateLimit(limiter services.RateLimiter, rule services.RateLimitRule) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()

		allowed, err := limiter.Allow(c.Request.Context(), key, rule)
		if err != nil {
			response.Logger(c).Error("Rate limiter failed", zap.Error(err), zap.String("key", key), zap.String("rule", rule.Name))
			c.Next()
			return
		}

		if !allowed {
			metrics.RateLimitExceededTotal.WithLabelValues(rule.Name).Inc()
			c.Header("Retry-After", strconv.Itoa(int(rule.Window.Seconds())))
			response.Abort(c, apperror.RateLimited("Too many requests, please try again later"))
			return
		}

		c.Next()
	}
}
