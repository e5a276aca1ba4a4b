package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/gamevault/gamevault/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, account *Account) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Account, error)
	FindByUsername(ctx context.Context, db *gorm.DB, username string) (*Account, error)
	List(ctx context.Context, db *gorm.DB, filter ListAccountFilter, page pagination.Pagination) ([]*Account, error)
	Search(ctx context.Context, db *gorm.DB, term string, excludeID snowflake.ID) ([]*Account, error)
	UpdateRole(ctx context.Context, db *gorm.DB, id snowflake.ID, role Role) error
	UpdateSteamID(ctx context.Context, db *gorm.DB, id snowflake.ID, steamID string) error
	CreditBalance(ctx context.Context, db *gorm.DB, id snowflake.ID, amountCents int64) error

	// DebitBalanceIfSufficient decrements the balance only when the current
	// balance covers the amount. It reports whether a row was updated.
	DebitBalanceIfSufficient(ctx context.Context, db *gorm.DB, id snowflake.ID, amountCents int64) (bool, error)
}
