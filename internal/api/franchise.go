package api

import (
	"context"  // Store calls
	"net/http" // HTTP status codes

	"jwt_pizza_service/internal/authz"      // Access control
	"jwt_pizza_service/internal/domain"     // Domain models
	"jwt_pizza_service/internal/middleware" // Request identity
	"jwt_pizza_service/internal/utils"      // Pagination

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// FranchiseStore persists franchises and their stores
type FranchiseStore interface {
	ListFranchises(ctx context.Context, filter string, page utils.Page) ([]domain.Franchise, bool, error)
	ListUserFranchises(ctx context.Context, userID uint) ([]domain.Franchise, error)
	GetFranchise(ctx context.Context, id uint) (*domain.Franchise, error)
	CreateFranchise(ctx context.Context, f *domain.Franchise, adminEmails []string) error
	DeleteFranchise(ctx context.Context, id uint) error
	CreateStore(ctx context.Context, st *domain.Store) error
	DeleteStore(ctx context.Context, franchiseID, storeID uint) error
}

// FranchiseAdminRef names a franchise admin by email
type FranchiseAdminRef struct {
	Email string `json:"email" binding:"required"` // Existing user's email
}

// CreateFranchiseRequest is the body of POST /api/franchise
type CreateFranchiseRequest struct {
	Name   string              `json:"name" binding:"required"` // Unique franchise name
	Admins []FranchiseAdminRef `json:"admins" binding:"dive"`   // Users granted the franchisee role
}

// CreateStoreRequest is the body of POST /api/franchise/:franchiseId/store
type CreateStoreRequest struct {
	Name string `json:"name" binding:"required"` // Store name
}

// ListFranchisesHandler pages through franchises with their stores
func ListFranchisesHandler(franchises FranchiseStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := utils.ParsePage(c)
		list, more, err := franchises.ListFranchises(c.Request.Context(), c.DefaultQuery("name", "*"), page)
		if err != nil {
			respondError(c, err)
			return
		}
		if list == nil {
			list = []domain.Franchise{}
		}
		c.JSON(http.StatusOK, gin.H{"franchises": list, "more": more})
	}
}

// ListUserFranchisesHandler returns the franchises a user administers. Callers
// other than that user or an admin get an empty list.
func ListUserFranchisesHandler(franchises FranchiseStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		target, ok := parseID(c, "userId")
		if !ok {
			badRequest(c, "invalid user id")
			return
		}
		caller, _ := middleware.CurrentUser(c)
		if !authz.Allowed(caller, authz.SelfOrAdmin(target)) {
			c.JSON(http.StatusOK, []domain.Franchise{})
			return
		}
		list, err := franchises.ListUserFranchises(c.Request.Context(), target)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// CreateFranchiseHandler creates a franchise and grants its admins the
// franchisee role
func CreateFranchiseHandler(franchises FranchiseStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateFranchiseRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "franchise name is required")
			return
		}
		emails := make([]string, len(req.Admins))
		for i, a := range req.Admins {
			emails[i] = a.Email
		}
		f := &domain.Franchise{Name: req.Name}
		if err := franchises.CreateFranchise(c.Request.Context(), f, emails); err != nil {
			respondError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"franchise_id": f.ID,
			"admins":       len(emails),
		}).Info("Franchise created")
		c.JSON(http.StatusOK, f)
	}
}

// DeleteFranchiseHandler removes a franchise with its stores and revokes the
// franchisee role of its admins
func DeleteFranchiseHandler(franchises FranchiseStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "franchiseId")
		if !ok {
			badRequest(c, "invalid franchise id")
			return
		}
		ctx := c.Request.Context()
		f, err := franchises.GetFranchise(ctx, id) // 404 before any write
		if err != nil {
			respondError(c, err)
			return
		}
		if err := franchises.DeleteFranchise(ctx, id); err != nil {
			respondError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"franchise_id": id,
			"name":         f.Name,
			"stores":       len(f.Stores),
			"admins":       len(f.Admins),
		}).Info("Franchise deleted")
		c.JSON(http.StatusOK, gin.H{"message": "franchise deleted"})
	}
}

// CreateStoreHandler adds a store; the franchise's admins or an admin may
func CreateStoreHandler(franchises FranchiseStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		franchiseID, ok := parseID(c, "franchiseId")
		if !ok {
			badRequest(c, "invalid franchise id")
			return
		}
		caller, _ := middleware.CurrentUser(c)
		if err := authz.Authorize(caller, authz.FranchiseAdminOrAdmin(franchiseID)); err != nil {
			respondError(c, err)
			return
		}
		var req CreateStoreRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "store name is required")
			return
		}
		st := &domain.Store{FranchiseID: franchiseID, Name: req.Name}
		if err := franchises.CreateStore(c.Request.Context(), st); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, st)
	}
}

// DeleteStoreHandler removes a store from a franchise
func DeleteStoreHandler(franchises FranchiseStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		franchiseID, ok := parseID(c, "franchiseId")
		if !ok {
			badRequest(c, "invalid franchise id")
			return
		}
		storeID, ok := parseID(c, "storeId")
		if !ok {
			badRequest(c, "invalid store id")
			return
		}
		if err := franchises.DeleteStore(c.Request.Context(), franchiseID, storeID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "store deleted"})
	}
}
