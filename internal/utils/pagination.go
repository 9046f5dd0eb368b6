package utils

import (
	"strconv" // String conversion

	"github.com/gin-gonic/gin" // Gin web framework
)

const (
	DefaultPage  = 1   // First page
	DefaultLimit = 10  // Default page size
	MaxLimit     = 100 // Upper bound for page size
)

// Page describes a 1-based page request
type Page struct {
	Page  int
	Limit int
}

// Offset is the number of rows to skip for this page
func (p Page) Offset() int { return (p.Page - 1) * p.Limit }

// ParsePage reads page and limit query params, falling back to defaults on
// missing or out-of-range values
func ParsePage(c *gin.Context) Page {
	p := Page{Page: DefaultPage, Limit: DefaultLimit}
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		p.Page = v // Set page if valid
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= MaxLimit {
		p.Limit = v // Set page size if valid
	}
	return p
}

// Trim cuts a result fetched with limit+1 rows down to the page and reports
// whether more rows exist
func Trim[T any](rows []T, limit int) ([]T, bool) {
	if len(rows) > limit {
		return rows[:limit], true
	}
	return rows, false
}
