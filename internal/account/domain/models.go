package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Role controls access to admin operations.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleAdmin:
		return true
	default:
		return false
	}
}

type Account struct {
	ID           snowflake.ID      `gorm:"primaryKey" json:"id"`
	Username     string            `gorm:"not null;uniqueIndex" json:"username"`
	PasswordHash string            `gorm:"column:password_hash;not null" json:"-"`
	Email        string            `gorm:"not null" json:"email"`
	Role         Role              `gorm:"not null;default:CUSTOMER" json:"role"`
	BalanceCents int64             `gorm:"not null;default:0" json:"balance_cents"`
	SteamID      string            `gorm:"column:steam_id" json:"steam_id,omitempty"`
	Metadata     datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
