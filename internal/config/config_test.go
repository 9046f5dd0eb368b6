package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("LEDGER_BACKEND", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("BCRYPT_COST", "")

	cfg := LoadConfig()
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, BackendSQL, cfg.StoreBackend)
	assert.Equal(t, BackendRedis, cfg.LedgerBackend)
	assert.Equal(t, DriverMySQL, cfg.DBDriver)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TOKEN_TTL", "90m")
	t.Setenv("CACHE_TTL", "not-a-duration")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("IS_PROD", "true")

	cfg := LoadConfig()
	assert.Equal(t, 90*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 60*time.Second, cfg.CacheTTL)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.True(t, cfg.IsProd)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			JWTSecret:     "s3cret",
			StoreBackend:  BackendSQL,
			LedgerBackend: BackendRedis,
			DBDriver:      DriverMySQL,
			BcryptCost:    10,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing secret", mutate: func(c *Config) { c.JWTSecret = "" }, wantErr: "JWT_SECRET"},
		{name: "unknown store", mutate: func(c *Config) { c.StoreBackend = "mongo" }, wantErr: "STORE_BACKEND"},
		{name: "unknown ledger", mutate: func(c *Config) { c.LedgerBackend = "file" }, wantErr: "LEDGER_BACKEND"},
		{name: "sql ledger needs sql store", mutate: func(c *Config) {
			c.LedgerBackend = BackendSQL
			c.StoreBackend = BackendMemory
		}, wantErr: "requires STORE_BACKEND=sql"},
		{name: "unknown driver", mutate: func(c *Config) { c.DBDriver = "oracle" }, wantErr: "DB_DRIVER"},
		{name: "cost too low", mutate: func(c *Config) { c.BcryptCost = 1 }, wantErr: "BCRYPT_COST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
