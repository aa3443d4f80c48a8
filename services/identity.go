package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// ErrInvalidToken is returned for any token that fails verification
var ErrInvalidToken = errors.New("invalid token")

// Identity is the verified subject of a bearer token
type Identity struct {
	Subject string
	Email   string
}

// IdentityVerifier turns a bearer token into a verified identity
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// CustomClaims contains custom data we want from the token.
type CustomClaims struct {
	Email string `json:"email"`
}

// Validate satisfies validator.CustomClaims; nothing beyond the registered claims is enforced.
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// Auth0Verifier validates RS256 access tokens against the tenant's JWKS
type Auth0Verifier struct {
	validator *validator.Validator
	userInfo  *Auth0Service
	log       *zap.Logger
}

// NewAuth0Verifier builds a verifier for https://<domain>/ tokens issued for audience.
// userInfo may be nil, in which case tokens without an email claim yield an empty email.
func NewAuth0Verifier(domain, audience string, userInfo *Auth0Service, log *zap.Logger) (*Auth0Verifier, error) {
	issuerURL, err := url.Parse("https://" + domain + "/")
	if err != nil {
		return nil, fmt.Errorf("failed to parse the issuer url: %w", err)
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{audience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &CustomClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set up the jwt validator: %w", err)
	}

	return &Auth0Verifier{validator: jwtValidator, userInfo: userInfo, log: log}, nil
}

func (v *Auth0Verifier) Verify(ctx context.Context, token string) (*Identity, error) {
	raw, err := v.validator.ValidateToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := raw.(*validator.ValidatedClaims)
	if !ok || claims.RegisteredClaims.Subject == "" {
		return nil, ErrInvalidToken
	}

	identity := &Identity{Subject: claims.RegisteredClaims.Subject}
	if custom, ok := claims.CustomClaims.(*CustomClaims); ok {
		identity.Email = custom.Email
	}

	// Access tokens usually omit the email; fall back to /userinfo
	if identity.Email == "" && v.userInfo != nil {
		info, err := v.userInfo.GetUserInfo(ctx, token)
		if err != nil {
			v.log.Warn("Failed to fetch userinfo", zap.String("sub", identity.Subject), zap.Error(err))
		} else {
			identity.Email = info.Email
		}
	}
	return identity, nil
}

type hmacClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// HMACVerifier validates HS256 tokens signed with a shared secret. Used for local runs and tests.
type HMACVerifier struct {
	secret []byte
}

func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

func (v *HMACVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	claims := &hmacClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (interface{}, error) {
			return v.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(time.Minute),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &Identity{Subject: claims.Subject, Email: claims.Email}, nil
}

// SignHMACToken mints a token HMACVerifier accepts
func SignHMACToken(secret, subject, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := hmacClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
