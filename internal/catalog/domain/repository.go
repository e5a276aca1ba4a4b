package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/gamevault/gamevault/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, title *Title) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Title, error)
	List(ctx context.Context, db *gorm.DB, filter ListTitleFilter, page pagination.Pagination) ([]*Title, error)
	Update(ctx context.Context, db *gorm.DB, title *Title) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	// CountReferences reports how many activation keys and purchase records
	// point at the title. Deletion is blocked while either is non-zero.
	CountReferences(ctx context.Context, db *gorm.DB, id snowflake.ID) (keys int64, purchases int64, err error)
}
