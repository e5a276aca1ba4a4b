package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/gamevault/gamevault/internal/social/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, friendship *domain.Friendship) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO friendships (id, account_id, friend_id, created_at)
		 VALUES (?, ?, ?, ?)`,
		friendship.ID,
		friendship.AccountID,
		friendship.FriendID,
		friendship.CreatedAt,
	).Error
}

func (r *repo) Exists(ctx context.Context, db *gorm.DB, accountID, friendID snowflake.ID) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM friendships WHERE account_id = ? AND friend_id = ?`,
		accountID, friendID,
	).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) ListFriends(ctx context.Context, db *gorm.DB, accountID snowflake.ID) ([]*domain.Friend, error) {
	var friends []*domain.Friend
	err := db.WithContext(ctx).Raw(
		`SELECT f.friend_id AS account_id,
		        a.username AS username,
		        f.created_at AS since
		 FROM friendships f
		 JOIN accounts a ON a.id = f.friend_id
		 WHERE f.account_id = ?
		 ORDER BY a.username ASC`,
		accountID,
	).Scan(&friends).Error
	if err != nil {
		return nil, err
	}
	return friends, nil
}
