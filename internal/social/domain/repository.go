package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, friendship *Friendship) error
	Exists(ctx context.Context, db *gorm.DB, accountID, friendID snowflake.ID) (bool, error)
	ListFriends(ctx context.Context, db *gorm.DB, accountID snowflake.ID) ([]*Friend, error)
}
