package middleware

import (
	"context"  // Request context
	"errors"   // Error classification
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"jwt_pizza_service/internal/auth"   // Auth service
	"jwt_pizza_service/internal/authz"  // Access control
	"jwt_pizza_service/internal/domain" // Domain models

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

const (
	userKey  = "user"  // Authenticated *domain.User
	tokenKey = "token" // Raw bearer token of the request
)

// Authenticator is the part of the auth service the middleware needs
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

var _ Authenticator = (*auth.Service)(nil)

// BearerToken extracts the token from an Authorization header
func BearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// JWTAuthMiddleware resolves a bearer token, when present, to the current
// user. It never rejects a request: routes that need an identity add
// RequireAuth.
func JWTAuthMiddleware(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c) // Extract the token string
		if !ok {
			c.Next() // Anonymous request
			return
		}
		c.Set(tokenKey, token) // Keep the raw token for logout
		user, err := authn.Authenticate(c.Request.Context(), token)
		switch {
		case err == nil:
			c.Set(userKey, user) // Store user in context
		case errors.Is(err, domain.ErrUnauthorized):
			logrus.WithField("path", c.FullPath()).Debug("Rejected bearer token")
		default:
			// Ledger or store failures are not an authentication verdict
			logrus.WithField("error", err.Error()).Error("Token authentication failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
			return
		}
		c.Next() // Proceed to the next handler
	}
}

// RequireAuth aborts with 401 unless JWTAuthMiddleware resolved a user
func RequireAuth() gin.HandlerFunc {
	return Require(authz.Authenticated())
}

// CurrentUser returns the authenticated user of the request
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok
}

// CurrentToken returns the raw bearer token of the request
func CurrentToken(c *gin.Context) (string, bool) {
	return c.GetString(tokenKey), c.GetString(tokenKey) != ""
}
