package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// ActivationKey is either unsold and unowned, or sold and owned by exactly
// one account. A sold key is never reassigned.
type ActivationKey struct {
	ID        snowflake.ID  `gorm:"primaryKey" json:"id"`
	TitleID   snowflake.ID  `gorm:"not null;index;uniqueIndex:idx_activation_keys_title_code" json:"title_id"`
	KeyCode   string        `gorm:"column:key_code;not null;uniqueIndex:idx_activation_keys_title_code" json:"key_code"`
	Sold      bool          `gorm:"not null;default:false" json:"sold"`
	OwnerID   *snowflake.ID `gorm:"index" json:"owner_id,omitempty"`
	CreatedAt time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (ActivationKey) TableName() string {
	return "activation_keys"
}
