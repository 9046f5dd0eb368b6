package main

import (
	"context" // context package is needed for Redis operations

	"jwt_pizza_service/internal/api"     // Custom package for API handlers
	"jwt_pizza_service/internal/auth"    // Custom package for the auth service
	"jwt_pizza_service/internal/config"  // Custom package for configuration
	"jwt_pizza_service/internal/db"      // Custom package for the database
	"jwt_pizza_service/internal/factory" // Custom package for the factory client
	"jwt_pizza_service/internal/ledger"  // Custom package for the revocation ledger
	"jwt_pizza_service/internal/order"   // Custom package for the order workflow
	"jwt_pizza_service/internal/store"   // Custom package for persistence
	"jwt_pizza_service/internal/utils"   // Custom package for the token codec

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// backend is what both store implementations provide
type backend interface {
	api.Store
	auth.UserStore
	order.OrderStore
}

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	setupLogger(cfg)
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Setup persistence and the revocation ledger
	var (
		st  backend
		led ledger.Ledger
	)
	switch cfg.StoreBackend {
	case config.BackendMemory:
		st = store.NewMemory()
		logrus.Warn("Using in-memory store; data is lost on restart")
	default:
		conn, err := db.Open(cfg)
		if err != nil {
			logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
		}
		if err := db.Migrate(conn); err != nil {
			logrus.Fatalf("%v", err)
		}
		st = store.NewSQLStore(conn)
		if cfg.LedgerBackend == config.BackendSQL {
			led = ledger.NewSQLLedger(conn)
		}
	}
	codec := utils.NewTokenCodec(cfg.JWTSecret, cfg.TokenTTL)
	if led == nil {
		led = ledger.NewRedisLedger(redisClient, codec.TTL()) // Ledger entries expire with their tokens
	}

	// Wire services
	svc := auth.NewService(st, codec, led, cfg.BcryptCost)
	workflow := order.NewWorkflow(st, st, factory.NewClient(cfg.FactoryURL, cfg.FactoryAPIKey, cfg.FactoryTimeout))

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	r := api.SetupRouter(api.Deps{
		Config: cfg,
		Store:  st,
		Auth:   svc,
		Orders: workflow,
		Redis:  redisClient,
	})

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"port":    cfg.AppPort,
		"store":   cfg.StoreBackend,
		"ledger":  cfg.LedgerBackend,
		"version": cfg.Version,
	}).Info("Server running")
	if err := r.Run(":" + cfg.AppPort); err != nil { // Start the server on port cfg.AppPort
		logrus.Fatalf("server stopped: %v", err)
	}
}

// setupLogger applies the formatter and level from configuration
func setupLogger(cfg *config.Config) {
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Warnf("unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
