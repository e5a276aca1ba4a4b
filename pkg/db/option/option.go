// Package option applies reusable query modifiers to gorm statements.
package option

import (
	"time"

	"github.com/gamevault/gamevault/pkg/db/pagination"
	"gorm.io/gorm"
)

// Option mutates a gorm statement.
type Option interface {
	Apply(stmt *gorm.DB) *gorm.DB
}

type paginationOption struct {
	page pagination.Pagination
}

// ApplyPagination builds a cursor pagination option. The statement fetches
// one extra row so callers can detect whether more pages exist.
func ApplyPagination(page pagination.Pagination) Option {
	return paginationOption{page: page}
}

func (o paginationOption) Apply(stmt *gorm.DB) *gorm.DB {
	limit := o.page.PageSize
	if limit <= 0 {
		limit = 50
	}

	if o.page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(o.page.PageToken)
		if err == nil && cursor.ID != "" {
			createdAt, parseErr := time.Parse(time.RFC3339, cursor.CreatedAt)
			if parseErr == nil {
				stmt = stmt.Where(
					"created_at < ? OR (created_at = ? AND id < ?)",
					createdAt, createdAt, cursor.ID,
				)
			}
		}
	}

	return stmt.Limit(limit + 1)
}
