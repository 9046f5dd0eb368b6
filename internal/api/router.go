package api

import (
	"net/http" // HTTP status codes

	"jwt_pizza_service/internal/auth"       // Auth service
	"jwt_pizza_service/internal/config"     // Configuration
	"jwt_pizza_service/internal/middleware" // Auth and logging middleware
	"jwt_pizza_service/internal/order"      // Order workflow

	"github.com/gin-gonic/gin"                                // Gin web framework
	"github.com/prometheus/client_golang/prometheus/promhttp" // Metrics exposition
	"github.com/redis/go-redis/v9"                            // Redis client
)

// Store is everything the HTTP layer reads or writes directly
type Store interface {
	UserDirectory
	MenuStore
	FranchiseStore
}

// Deps carries the services the router wires into handlers. Redis may be nil,
// which disables response caching.
type Deps struct {
	Config *config.Config
	Store  Store
	Auth   *auth.Service
	Orders *order.Workflow
	Redis  redis.Cmdable
}

// Endpoint documents one route for GET /api/docs
type Endpoint struct {
	Method       string `json:"method"`
	Path         string `json:"path"`
	RequiresAuth bool   `json:"requiresAuth"`
}

// routes registers handlers and records them for the docs endpoint
type routes struct {
	group     *gin.RouterGroup
	endpoints *[]Endpoint
}

func (rt routes) handle(method, path string, requiresAuth bool, handlers ...gin.HandlerFunc) {
	if requiresAuth {
		handlers = append([]gin.HandlerFunc{middleware.RequireAuth()}, handlers...)
	}
	rt.group.Handle(method, path, handlers...)
	*rt.endpoints = append(*rt.endpoints, Endpoint{
		Method:       method,
		Path:         rt.group.BasePath() + path,
		RequiresAuth: requiresAuth,
	})
}

// SetupRouter wires every route and middleware of the service
func SetupRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.JWTAuthMiddleware(deps.Auth))

	var endpoints []Endpoint
	adminOnly := middleware.AdminOnlyMiddleware()

	// Auth routes
	authRoutes := routes{group: r.Group("/api/auth"), endpoints: &endpoints}
	authRoutes.handle(http.MethodPost, "", false, RegisterHandler(deps.Auth))
	authRoutes.handle(http.MethodPut, "", false, LoginHandler(deps.Auth))
	authRoutes.handle(http.MethodDelete, "", true, LogoutHandler(deps.Auth))

	// User routes
	userRoutes := routes{group: r.Group("/api/user"), endpoints: &endpoints}
	userRoutes.handle(http.MethodGet, "/me", true, MeHandler())
	userRoutes.handle(http.MethodPut, "/:userId", true, UpdateUserHandler(deps.Auth))
	userRoutes.handle(http.MethodGet, "", true, adminOnly, ListUsersHandler(deps.Store))
	userRoutes.handle(http.MethodDelete, "/:userId", true, adminOnly, DeleteUserHandler(deps.Auth, deps.Store))

	// Order routes
	ttl := deps.Config.CacheTTL
	orderRoutes := routes{group: r.Group("/api/order"), endpoints: &endpoints}
	orderRoutes.handle(http.MethodGet, "/menu", false, GetMenuHandler(deps.Store, deps.Redis, ttl))
	orderRoutes.handle(http.MethodPut, "/menu", true, adminOnly, AddMenuItemHandler(deps.Store, deps.Redis))
	orderRoutes.handle(http.MethodGet, "", true, ListOrdersHandler(deps.Orders))
	orderRoutes.handle(http.MethodPost, "", true, CreateOrderHandler(deps.Orders))

	// Franchise routes
	franchiseRoutes := routes{group: r.Group("/api/franchise"), endpoints: &endpoints}
	franchiseRoutes.handle(http.MethodGet, "", false, ListFranchisesHandler(deps.Store))
	franchiseRoutes.handle(http.MethodGet, "/:userId", true, ListUserFranchisesHandler(deps.Store))
	franchiseRoutes.handle(http.MethodPost, "", true, adminOnly, CreateFranchiseHandler(deps.Store))
	franchiseRoutes.handle(http.MethodDelete, "/:franchiseId", true, adminOnly, DeleteFranchiseHandler(deps.Store))
	franchiseRoutes.handle(http.MethodPost, "/:franchiseId/store", true, CreateStoreHandler(deps.Store))
	franchiseRoutes.handle(http.MethodDelete, "/:franchiseId/store/:storeId", true, adminOnly, DeleteStoreHandler(deps.Store))

	// Base routes
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "welcome to JWT Pizza", "version": deps.Config.Version})
	})
	r.GET("/api/docs", DocsHandler(deps.Config, endpoints))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "unknown endpoint"})
	})
	return r
}

// DocsHandler describes the service version, endpoints and upstreams
func DocsHandler(cfg *config.Config, endpoints []Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":   cfg.Version,
			"endpoints": endpoints,
			"config": gin.H{
				"factory": cfg.FactoryURL,
				"db":      cfg.DBHost,
			},
		})
	}
}
