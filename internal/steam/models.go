package steam

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// SteamGame is one imported library entry. Each import replaces the
// account's previous snapshot wholesale.
type SteamGame struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"id"`
	AccountID       snowflake.ID `gorm:"not null;index;uniqueIndex:idx_steam_games_account_name" json:"account_id"`
	AppID           int64        `gorm:"not null" json:"app_id"`
	Name            string       `gorm:"not null;uniqueIndex:idx_steam_games_account_name" json:"name"`
	PlaytimeMinutes int64        `gorm:"not null;default:0" json:"playtime_minutes"`
	Developer       string       `json:"developer,omitempty"`
	Publisher       string       `json:"publisher,omitempty"`
	Genre           string       `json:"genre,omitempty"`
	Description     string       `json:"description,omitempty"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (SteamGame) TableName() string {
	return "steam_games"
}
