package api

import (
	"context"  // Store calls
	"net/http" // HTTP status codes
	"time"     // Cache TTL

	"jwt_pizza_service/internal/domain"     // Domain models
	"jwt_pizza_service/internal/middleware" // Request identity
	"jwt_pizza_service/internal/order"      // Order workflow
	"jwt_pizza_service/internal/utils"      // Cache and pagination helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// MenuStore reads and extends the menu
type MenuStore interface {
	GetMenu(ctx context.Context) ([]domain.MenuItem, error)
	AddMenuItem(ctx context.Context, item *domain.MenuItem) error
}

// menuCacheKey holds the cached GET /api/order/menu response
var menuCacheKey = utils.CacheKey("menu")

// AddMenuItemRequest is the body of PUT /api/order/menu
type AddMenuItemRequest struct {
	Title       string  `json:"title" binding:"required"` // Item name
	Description string  `json:"description"`              // Long description
	Image       string  `json:"image"`                    // Image file name
	Price       float64 `json:"price" binding:"gte=0"`    // Price in bitcoin
}

// OrderItemRequest is one cart line of POST /api/order
type OrderItemRequest struct {
	MenuID      uint    `json:"menuId" binding:"required"` // Menu item id
	Description string  `json:"description"`               // Echoed into the order
	Price       float64 `json:"price"`                     // Echoed into the order
}

// CreateOrderRequest is the body of POST /api/order
type CreateOrderRequest struct {
	FranchiseID uint               `json:"franchiseId" binding:"required"`      // Target franchise
	StoreID     uint               `json:"storeId" binding:"required"`          // Target store
	Items       []OrderItemRequest `json:"items" binding:"required,min=1,dive"` // Cart
}

// GetMenuHandler returns the menu, served from Redis while cached. A nil
// client disables caching.
func GetMenuHandler(menu MenuStore, rdb redis.Cmdable, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if rdb != nil {
			var cached []domain.MenuItem
			found, err := utils.GetCache(ctx, rdb, menuCacheKey, &cached)
			if err == nil && found {
				c.JSON(http.StatusOK, cached) // Cached response
				return
			}
			if err != nil {
				logrus.WithField("error", err.Error()).Warn("Menu cache read failed")
			}
		}
		items, err := menu.GetMenu(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		if items == nil {
			items = []domain.MenuItem{}
		}
		if rdb != nil {
			if err := utils.SetCache(ctx, rdb, menuCacheKey, items, ttl); err != nil {
				logrus.WithField("error", err.Error()).Warn("Menu cache write failed")
			}
		}
		c.JSON(http.StatusOK, items)
	}
}

// AddMenuItemHandler adds one item and returns the whole menu
func AddMenuItemHandler(menu MenuStore, rdb redis.Cmdable) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddMenuItemRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "title and a non-negative price are required")
			return
		}
		ctx := c.Request.Context()
		item := &domain.MenuItem{Title: req.Title, Description: req.Description, Image: req.Image, Price: req.Price}
		if err := menu.AddMenuItem(ctx, item); err != nil {
			respondError(c, err)
			return
		}
		if rdb != nil {
			// Stale menus would reject carts with the new item
			if err := utils.DeleteCache(ctx, rdb, menuCacheKey); err != nil {
				logrus.WithField("error", err.Error()).Warn("Menu cache invalidation failed")
			}
		}
		items, err := menu.GetMenu(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// ListOrdersHandler returns the caller's own orders, newest first
func ListOrdersHandler(w *order.Workflow) gin.HandlerFunc {
	return func(c *gin.Context) {
		diner, _ := middleware.CurrentUser(c)
		page := utils.ParsePage(c)
		orders, more, err := w.List(c.Request.Context(), diner, page)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"dinerId": diner.ID,  // Owner of the listed orders
			"orders":  orders,    // Current page
			"page":    page.Page, // Page number
			"more":    more,      // Further pages exist
		})
	}
}

// CreateOrderHandler persists the cart and forwards it to the factory. A
// failed fulfillment still answers 200 with fulfilled=false.
func CreateOrderHandler(w *order.Workflow) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateOrderRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "franchiseId, storeId, and items are required")
			return
		}
		in := order.SubmitInput{FranchiseID: req.FranchiseID, StoreID: req.StoreID, Items: make([]order.Item, len(req.Items))}
		for i, it := range req.Items {
			in.Items[i] = order.Item{MenuID: it.MenuID, Description: it.Description, Price: it.Price}
		}
		diner, _ := middleware.CurrentUser(c)
		res, err := w.Submit(c.Request.Context(), diner, in)
		if err != nil {
			respondError(c, err)
			return
		}
		body := gin.H{
			"order":     res.Order,
			"jwt":       "",
			"reportUrl": res.ReportURL,
			"fulfilled": res.Fulfilled,
		}
		if res.Receipt != nil {
			body["jwt"] = res.Receipt.JWT
		}
		if res.Message != "" {
			body["message"] = res.Message
		}
		c.JSON(http.StatusOK, body)
	}
}
