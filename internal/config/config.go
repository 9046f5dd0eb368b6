package config

import (
	"errors"  // For validation errors
	"fmt"     // For error formatting
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"time"    // For duration parsing

	"github.com/joho/godotenv"   // For loading .env files
	"golang.org/x/crypto/bcrypt" // For the default hashing cost
)

// Backend names accepted by STORE_BACKEND, LEDGER_BACKEND and DB_DRIVER
const (
	BackendSQL    = "sql"
	BackendMemory = "memory"
	BackendRedis  = "redis"

	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Config holds the application configuration
type Config struct {
	AppPort        string        // Application port
	IsProd         bool          // Is production environment
	LogLevel       string        // Logrus level name
	Version        string        // Reported by / and /api/docs
	DBDriver       string        // mysql or postgres
	DBUser         string        // Database user
	DBPassword     string        // Database password
	DBHost         string        // Database host
	DBPort         string        // Database port
	DBName         string        // Database name
	StoreBackend   string        // sql or memory
	JWTSecret      string        // JWT secret key
	TokenTTL       time.Duration // Token lifetime, zero disables expiry
	LedgerBackend  string        // redis or sql
	RedisAddr      string        // Redis server address
	RedisPass      string        // Redis password
	RedisDB        int           // Redis database number
	CacheTTL       time.Duration // Lifetime of cached menu responses
	FactoryURL     string        // Base URL of the pizza factory
	FactoryAPIKey  string        // Shared credential sent to the factory
	FactoryTimeout time.Duration // Upper bound for a single factory call
	BcryptCost     int           // Password hashing cost
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:        getEnv("APP_PORT", "3000"),
		IsProd:         os.Getenv("IS_PROD") == "true",
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Version:        getEnv("VERSION", "dev"),
		DBDriver:       getEnv("DB_DRIVER", DriverMySQL),
		DBUser:         os.Getenv("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBHost:         getEnv("DB_HOST", "127.0.0.1"),
		DBPort:         os.Getenv("DB_PORT"),
		DBName:         getEnv("DB_NAME", "pizza"),
		StoreBackend:   getEnv("STORE_BACKEND", BackendSQL),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		TokenTTL:       getDuration("TOKEN_TTL", 24*time.Hour),
		LedgerBackend:  getEnv("LEDGER_BACKEND", BackendRedis),
		RedisAddr:      getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPass:      os.Getenv("REDIS_PASS"),
		RedisDB:        redisDB,
		CacheTTL:       getDuration("CACHE_TTL", 60*time.Second),
		FactoryURL:     getEnv("FACTORY_URL", "https://pizza-factory.cs329.click"),
		FactoryAPIKey:  os.Getenv("FACTORY_API_KEY"),
		FactoryTimeout: getDuration("FACTORY_TIMEOUT", 10*time.Second),
		BcryptCost:     getInt("BCRYPT_COST", bcrypt.DefaultCost),
	}
}

// Validate reports configuration that would keep the service from starting
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.StoreBackend {
	case BackendSQL, BackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	switch c.LedgerBackend {
	case BackendRedis, BackendSQL:
	default:
		return fmt.Errorf("unknown LEDGER_BACKEND %q", c.LedgerBackend)
	}
	if c.LedgerBackend == BackendSQL && c.StoreBackend != BackendSQL {
		return errors.New("LEDGER_BACKEND=sql requires STORE_BACKEND=sql")
	}
	switch c.DBDriver {
	case DriverMySQL, DriverPostgres:
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}

// getEnv returns the variable or a fallback when it is unset
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getDuration parses a Go duration, falling back on empty or bad input
func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

// getInt parses an integer, falling back on empty or bad input
func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
