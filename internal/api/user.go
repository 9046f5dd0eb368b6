package api

import (
	"context"  // Store calls
	"fmt"      // Error wrapping
	"net/http" // HTTP status codes
	"strconv"  // Path parameter parsing

	"jwt_pizza_service/internal/auth"       // Auth service
	"jwt_pizza_service/internal/authz"      // Access control
	"jwt_pizza_service/internal/domain"     // Domain models
	"jwt_pizza_service/internal/middleware" // Request identity
	"jwt_pizza_service/internal/utils"      // Pagination

	"github.com/gin-gonic/gin" // Gin web framework
)

// UserDirectory is the read side of the credential store used by admins
type UserDirectory interface {
	GetUserByID(ctx context.Context, id uint) (*domain.User, error)
	FindUsersByName(ctx context.Context, name string) ([]domain.User, error)
	ListUsers(ctx context.Context, filter string, page utils.Page) ([]domain.User, bool, error)
}

// UpdateUserRequest is the body of PUT /api/user/:userId; absent fields are kept
type UpdateUserRequest struct {
	Name     *string `json:"name"`     // New display name
	Email    *string `json:"email"`    // New login email
	Password *string `json:"password"` // New plain password
}

// parseID reads a positive numeric path parameter
func parseID(c *gin.Context, param string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}

// MeHandler returns the authenticated user
func MeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c) // RequireAuth guarantees presence
		c.JSON(http.StatusOK, user)
	}
}

// UpdateUserHandler lets a user edit their own profile, or an admin any
// profile, and returns the user with a newly issued token
func UpdateUserHandler(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		target, ok := parseID(c, "userId")
		if !ok {
			badRequest(c, "invalid user id")
			return
		}
		caller, _ := middleware.CurrentUser(c)
		if err := authz.Authorize(caller, authz.SelfOrAdmin(target)); err != nil {
			respondError(c, err)
			return
		}
		var req UpdateUserRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request")
			return
		}
		user, token, err := svc.UpdateUser(c.Request.Context(), target, auth.UpdateInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
	}
}

// ListUsersHandler pages through users, optionally filtered by a `*`
// wildcard name
func ListUsersHandler(users UserDirectory) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := utils.ParsePage(c)
		list, more, err := users.ListUsers(c.Request.Context(), c.DefaultQuery("name", "*"), page)
		if err != nil {
			respondError(c, err)
			return
		}
		if list == nil {
			list = []domain.User{}
		}
		c.JSON(http.StatusOK, gin.H{"users": list, "more": more})
	}
}

// DeleteUserHandler removes users by numeric id or, otherwise, by exact name.
// Every active token of a removed user is revoked.
func DeleteUserHandler(svc *auth.Service, users UserDirectory) gin.HandlerFunc {
	return func(c *gin.Context) {
		ids, err := resolveUsers(c.Request.Context(), users, c.Param("userId"))
		if err != nil {
			respondError(c, err)
			return
		}
		for _, id := range ids {
			if err := svc.DeleteUser(c.Request.Context(), id); err != nil {
				respondError(c, err)
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
	}
}

// resolveUsers turns the path value of DELETE /api/user/:userId into ids. An
// exact name match wins; a numeric value matching no name is taken as an id.
func resolveUsers(ctx context.Context, users UserDirectory, ref string) ([]uint, error) {
	matched, err := users.FindUsersByName(ctx, ref)
	if err != nil {
		return nil, err
	}
	if len(matched) > 0 {
		ids := make([]uint, len(matched))
		for i, u := range matched {
			ids[i] = u.ID
		}
		return ids, nil
	}
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		user, err := users.GetUserByID(ctx, uint(id))
		if err != nil {
			return nil, err
		}
		return []uint{user.ID}, nil
	}
	return nil, fmt.Errorf("%w: user %q", domain.ErrNotFound, ref)
}
