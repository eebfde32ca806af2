package middleware

import (
	stdErrors "errors"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/memory-care/errors"
	"github.com/johnquangdev/memory-care/pkg/jwt"
)

const (
	// UserIDKey holds the authenticated user's uuid.UUID in the echo context
	UserIDKey = "user_id"
	// ClaimsKey holds the verified *jwt.Claims
	ClaimsKey = "claims"
)

// TokenVerifier validates bearer tokens
type TokenVerifier interface {
	ValidateAccessToken(token string) (*jwt.Claims, error)
}

// EchoAuth returns an Echo middleware that validates the bearer token issued
// by the auth provider and sets "user_id" and "claims" in the echo context.
// Failures are returned as AppError so the router's error handler renders them.
func EchoAuth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				return errors.ErrUnauthenticated()
			}

			claims, err := verifier.ValidateAccessToken(token)
			if err != nil {
				if stdErrors.Is(err, jwt.ErrTokenExpired) {
					return errors.ErrTokenExpired()
				}
				return errors.ErrInvalidToken()
			}

			userID, err := claims.UserID()
			if err != nil {
				return errors.ErrInvalidToken()
			}

			c.Set(ClaimsKey, claims)
			c.Set(UserIDKey, userID)

			return next(c)
		}
	}
}

// GetUserID returns the authenticated user id set by EchoAuth
func GetUserID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(UserIDKey).(uuid.UUID)
	return id, ok
}

func extractToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	// Try cookie as fallback
	if cookie, err := c.Cookie("access_token"); err == nil {
		return cookie.Value
	}

	return ""
}
