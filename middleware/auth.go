package middleware

import (
	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/complaint-desk-api/apperror"
	"github.com/kendall-kelly/complaint-desk-api/logger"
	"github.com/kendall-kelly/complaint-desk-api/metrics"
	"github.com/kendall-kelly/complaint-desk-api/repositories"
	"github.com/kendall-kelly/complaint-desk-api/response"
	"github.com/kendall-kelly/complaint-desk-api/services"
	"go.uber.org/zap"
)

const (
	userIDKey   = "user_id"
	identityKey = "identity"
	callerKey   = "caller"
)

// RequireIdentity verifies the bearer token and stores the identity in the Gin context.
// A missing or invalid token aborts with 401.
func RequireIdentity(verifier services.IdentityVerifier) gin.HandlerFunc {
	return identity(verifier, true)
}

// OptionalIdentity verifies a bearer token when one is sent. Requests without a token pass
// through anonymously; an invalid token still aborts with 401.
func OptionalIdentity(verifier services.IdentityVerifier) gin.HandlerFunc {
	return identity(verifier, false)
}

func identity(verifier services.IdentityVerifier, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := jwtmiddleware.AuthHeaderTokenExtractor(c.Request)
		if err != nil {
			metrics.AuthFailuresTotal.WithLabelValues("malformed_header").Inc()
			response.Abort(c, apperror.Unauthenticated("Authorization header format must be Bearer {token}", err))
			return
		}
		if token == "" {
			if required {
				metrics.AuthFailuresTotal.WithLabelValues("missing_token").Inc()
				response.Abort(c, apperror.Unauthenticated("Authentication token is required", nil))
				return
			}
			c.Next()
			return
		}

		id, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			metrics.AuthFailuresTotal.WithLabelValues("invalid_token").Inc()
			response.Logger(c).Debug("Token rejected", zap.Error(err))
			response.Abort(c, apperror.Unauthenticated("Invalid or expired token", err))
			return
		}

		c.Set(userIDKey, id.Subject)
		c.Set(identityKey, id)
		c.Set(response.LoggerKey, logger.WithUserID(response.Logger(c), id.Subject))
		c.Next()
	}
}

// ResolveCaller loads the users row for the verified identity and stores the resulting Caller.
// An identity without a row gets a Caller with no role, which holds no capabilities.
func ResolveCaller(users *repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := GetUserID(c)
		if err != nil {
			c.Next()
			return
		}

		caller := services.Caller{UserID: userID}
		if id, err := GetIdentity(c); err == nil {
			caller.Email = id.Email
		}
		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			response.Abort(c, apperror.Database("Failed to resolve caller", err))
			return
		}
		if user != nil {
			caller.Role = user.Role
			if caller.Email == "" {
				caller.Email = user.Email
			}
		}

		c.Set(callerKey, caller)
		c.Next()
	}
}

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) (string, error) {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return "", &AuthError{Code: "MISSING_USER_ID", Message: "User ID not found in context"}
	}

	userIDStr, ok := userID.(string)
	if !ok {
		return "", &AuthError{Code: "INVALID_USER_ID", Message: "User ID is not a string"}
	}

	return userIDStr, nil
}

// GetIdentity extracts the verified identity, if any
func GetIdentity(c *gin.Context) (*services.Identity, error) {
	v, exists := c.Get(identityKey)
	if !exists {
		return nil, &AuthError{Code: "MISSING_IDENTITY", Message: "Identity not found in context"}
	}
	id, ok := v.(*services.Identity)
	if !ok {
		return nil, &AuthError{Code: "INVALID_IDENTITY", Message: "Identity is not in the expected format"}
	}
	return id, nil
}

// GetCaller extracts the resolved caller
func GetCaller(c *gin.Context) (services.Caller, error) {
	v, exists := c.Get(callerKey)
	if !exists {
		return services.Caller{}, &AuthError{Code: "MISSING_CALLER", Message: "Caller not found in context"}
	}
	caller, ok := v.(services.Caller)
	if !ok {
		return services.Caller{}, &AuthError{Code: "INVALID_CALLER", Message: "Caller is not in the expected format"}
	}
	return caller, nil
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
