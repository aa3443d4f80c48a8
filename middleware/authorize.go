package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/complaint-desk-api/apperror"
	"github.com/kendall-kelly/complaint-desk-api/policy"
	"github.com/kendall-kelly/complaint-desk-api/response"
)

// Authorize aborts with 403 unless the resolved caller's role holds op
func Authorize(gate *policy.Gate, op policy.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, err := GetCaller(c)
		if err != nil {
			response.Abort(c, apperror.Unauthenticated("Authentication required", err))
			return
		}
		if !gate.Allow(caller.Role, op) {
			msg := "Insufficient permissions to access this resource"
			if caller.Role == "" {
				msg = "User is not registered"
			}
			response.Abort(c, apperror.Forbidden(msg))
			return
		}
		c.Next()
	}
}

// Registered aborts with 403 for identities that have no users row
func Registered() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, err := GetCaller(c)
		if err != nil {
			response.Abort(c, apperror.Unauthenticated("Authentication required", err))
			return
		}
		if caller.Role == "" {
			response.Abort(c, apperror.Forbidden("User is not registered"))
			return
		}
		c.Next()
	}
}
