package db

import (
	"fmt" // DSN formatting

	"jwt_pizza_service/internal/config" // Configuration

	"gorm.io/driver/mysql"    // MySQL driver for GORM
	"gorm.io/driver/postgres" // PostgreSQL driver for GORM
	"gorm.io/gorm"            // GORM ORM library
)

// DSN builds the connection string for the configured driver
func DSN(cfg *config.Config) string {
	port := cfg.DBPort
	if cfg.DBDriver == config.DriverPostgres {
		if port == "" {
			port = "5432" // Default PostgreSQL port
		}
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost, port, cfg.DBUser, cfg.DBPassword, cfg.DBName)
	}
	if port == "" {
		port = "3306" // Default MySQL port
	}
	return cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + port + ")/" + cfg.DBName + "?parseTime=true"
}

// Dialector picks the gorm driver for DB_DRIVER
func Dialector(cfg *config.Config) gorm.Dialector {
	if cfg.DBDriver == config.DriverPostgres {
		return postgres.Open(DSN(cfg))
	}
	return mysql.Open(DSN(cfg))
}

// Open connects to the configured database. Driver errors are translated so
// unique violations surface as gorm.ErrDuplicatedKey.
func Open(cfg *config.Config) (*gorm.DB, error) {
	conn, err := gorm.Open(Dialector(cfg), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.DBDriver, err)
	}
	return conn, nil
}
