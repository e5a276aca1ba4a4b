package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, purchase *Purchase) error
	Exists(ctx context.Context, db *gorm.DB, accountID, titleID snowflake.ID) (bool, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Purchase, error)
	ListOwned(ctx context.Context, db *gorm.DB, accountID snowflake.ID) ([]*OwnedItem, error)
	FindReceipt(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Receipt, error)
}
