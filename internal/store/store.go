// Package store persists users, roles, menu, orders, franchises and stores.
// SQLStore is backed by gorm; Memory keeps everything in process and is used
// by tests and by STORE_BACKEND=memory.
package store

import (
	"errors"  // gorm error matching
	"fmt"     // Error wrapping
	"strings" // Wildcard filters

	"jwt_pizza_service/internal/domain" // Domain errors

	"gorm.io/gorm" // GORM ORM library
)

// SQLStore implements every store interface on one gorm connection
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore wraps an open gorm connection
func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

// likePattern turns a `*` wildcard filter into a SQL LIKE pattern
func likePattern(filter string) string {
	if filter == "" {
		return "%"
	}
	return strings.ReplaceAll(filter, "*", "%")
}

// notFound maps gorm's missing-row error onto the domain sentinel
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, what)
	}
	return fmt.Errorf("load %s: %w", what, err)
}

// wildcardMatch reports whether name matches a `*` wildcard filter
func wildcardMatch(filter, name string) bool {
	if filter == "" || filter == "*" {
		return true
	}
	parts := strings.Split(filter, "*")
	if !strings.HasPrefix(name, parts[0]) {
		return false
	}
	rest := name[len(parts[0]):]
	last := len(parts) - 1
	for i := 1; i < last; i++ {
		idx := strings.Index(rest, parts[i])
		if idx < 0 {
			return false
		}
		rest = rest[idx+len(parts[i]):]
	}
	if last == 0 {
		return rest == ""
	}
	return strings.HasSuffix(rest, parts[last])
}
