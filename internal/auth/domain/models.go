package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Session stores only the SHA-256 hash of the opaque token handed to the
// client. A leaked table row cannot be replayed as a cookie.
type Session struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	AccountID snowflake.ID `gorm:"not null;index" json:"account_id"`
	TokenHash string       `gorm:"not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time    `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}
