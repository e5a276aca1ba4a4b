package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Friendship is a directed edge. Reciprocity is not enforced here.
type Friendship struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	AccountID snowflake.ID `gorm:"not null;uniqueIndex:idx_friendships_account_friend" json:"account_id"`
	FriendID  snowflake.ID `gorm:"not null;uniqueIndex:idx_friendships_account_friend" json:"friend_id"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// Friend is the read model for a friend-list entry.
type Friend struct {
	AccountID snowflake.ID `json:"account_id"`
	Username  string       `json:"username"`
	Since     time.Time    `json:"since"`
}

// CommonGame is a title owned by both sides of a friendship.
type CommonGame struct {
	TitleID   snowflake.ID `json:"title_id"`
	TitleName string       `json:"title_name"`
	Genre     string       `json:"genre,omitempty"`
}
