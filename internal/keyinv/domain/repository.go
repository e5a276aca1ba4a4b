package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, key *ActivationKey) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*ActivationKey, error)
	ListByTitle(ctx context.Context, db *gorm.DB, titleID snowflake.ID) ([]*ActivationKey, error)
	CountAvailable(ctx context.Context, db *gorm.DB, titleID snowflake.ID) (int64, error)
	TitleExists(ctx context.Context, db *gorm.DB, titleID snowflake.ID) (bool, error)

	// AllocateAvailable returns one currently unsold key for the title, or
	// nil when the pool is exhausted. Selection order is unspecified.
	AllocateAvailable(ctx context.Context, db *gorm.DB, titleID snowflake.ID) (*ActivationKey, error)

	// Assign marks the key sold and attaches the owner. It re-validates the
	// unsold flag so two buyers cannot both win the same key; it reports
	// whether a row was updated.
	Assign(ctx context.Context, db *gorm.DB, keyID, ownerID snowflake.ID) (bool, error)
}
