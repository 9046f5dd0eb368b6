package api

import (
	"net/http" // HTTP status codes

	"jwt_pizza_service/internal/auth"       // Auth service
	"jwt_pizza_service/internal/metrics"    // Prometheus collectors
	"jwt_pizza_service/internal/middleware" // Request identity

	"github.com/gin-gonic/gin" // Gin web framework
)

// RegisterRequest is the body of POST /api/auth
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`     // Display name
	Email    string `json:"email" binding:"required"`    // Unique login
	Password string `json:"password" binding:"required"` // Plain password, hashed by the service
}

// LoginRequest is the body of PUT /api/auth
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Login email
	Password string `json:"password" binding:"required"` // Plain password
}

// RegisterHandler creates a diner and returns it with an active token
func RegisterHandler(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "name, email, and password are required")
			return
		}
		// Roles stay empty: public registration always yields a diner
		user, token, err := svc.Register(c.Request.Context(), auth.RegisterInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
		})
		metrics.Auth("register", err)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
	}
}

// LoginHandler checks credentials and returns a fresh active token
func LoginHandler(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "email and password are required")
			return
		}
		user, token, err := svc.Login(c.Request.Context(), req.Email, req.Password)
		metrics.Auth("login", err)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
	}
}

// LogoutHandler deactivates the bearer token of the request. A second logout
// with the same token is answered with 401.
func LogoutHandler(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := middleware.CurrentToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
			return
		}
		err := svc.Logout(c.Request.Context(), token)
		metrics.Auth("logout", err)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "logout successful"})
	}
}
