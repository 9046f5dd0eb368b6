package middleware

import (
	"errors"   // Error classification
	"net/http" // HTTP status codes

	"jwt_pizza_service/internal/authz"  // Access control
	"jwt_pizza_service/internal/domain" // Domain models

	"github.com/gin-gonic/gin" // Gin web framework
)

// Require enforces a fixed requirement on the current user. Missing identity
// aborts with 401, insufficient role with 403.
func Require(req authz.Requirement) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := CurrentUser(c) // nil when anonymous
		if err := authz.Authorize(user, req); err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "unable to perform this action"})
			return
		}
		c.Next() // Authorized, proceed to the next handler
	}
}

// AdminOnlyMiddleware checks the current user's roles for admin
func AdminOnlyMiddleware() gin.HandlerFunc {
	return Require(authz.AdminOnly())
}
