package db

import (
	"fmt" // Error wrapping

	"jwt_pizza_service/internal/domain" // Importing domain models
	"jwt_pizza_service/internal/ledger" // Token ledger table

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Models lists every table the service owns, parents before children
func Models() []any {
	return []any{
		&domain.User{},
		&domain.RoleAssignment{},
		&domain.MenuItem{},
		&domain.Franchise{},
		&domain.Store{},
		&domain.Order{},
		&domain.OrderItem{},
		&ledger.AuthToken{},
	}
}

// Migrate performs automatic migration for the database schema
func Migrate(conn *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := conn.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if err := caseSensitiveEmails(conn); err != nil {
		return err
	}
	logrus.WithField("tables", len(Models())).Info("Migration completed.")
	return nil
}

// caseSensitiveEmails gives users.email a binary collation on MySQL so the
// unique index and login lookups compare emails exactly as stored. Postgres
// text comparison is already byte-wise.
func caseSensitiveEmails(conn *gorm.DB) error {
	if conn.Dialector.Name() != "mysql" {
		return nil
	}
	err := conn.Exec("ALTER TABLE `users` MODIFY `email` VARCHAR(191) NOT NULL COLLATE utf8mb4_bin").Error
	if err != nil {
		return fmt.Errorf("set email collation: %w", err)
	}
	return nil
}
