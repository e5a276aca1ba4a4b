package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Title struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"not null;index" json:"name"`
	Description string       `gorm:"not null" json:"description"`
	PriceCents  int64        `gorm:"not null" json:"price_cents"`
	Developer   string       `json:"developer,omitempty"`
	Publisher   string       `json:"publisher,omitempty"`
	Genre       string       `json:"genre,omitempty"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
