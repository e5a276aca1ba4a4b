package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Purchase is the ledger record of a completed sale. The unique index on
// (account_id, title_id) is the final backstop against double ownership.
type Purchase struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	AccountID  snowflake.ID `gorm:"not null;uniqueIndex:idx_purchases_account_title" json:"account_id"`
	TitleID    snowflake.ID `gorm:"not null;uniqueIndex:idx_purchases_account_title" json:"title_id"`
	KeyID      snowflake.ID `gorm:"not null" json:"key_id"`
	PriceCents int64        `gorm:"not null" json:"price_cents"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// OwnedItem is the read model for an account's library.
type OwnedItem struct {
	PurchaseID snowflake.ID `json:"purchase_id"`
	TitleID    snowflake.ID `json:"title_id"`
	TitleName  string       `json:"title_name"`
	Genre      string       `json:"genre,omitempty"`
	KeyCode    string       `json:"key_code"`
	PriceCents int64        `json:"price_cents"`
	CreatedAt  time.Time    `json:"created_at"`
}

// Receipt carries everything needed to render a purchase receipt.
type Receipt struct {
	PurchaseID snowflake.ID `json:"purchase_id"`
	Username   string       `json:"username"`
	Email      string       `json:"email"`
	TitleName  string       `json:"title_name"`
	KeyCode    string       `json:"key_code"`
	PriceCents int64        `json:"price_cents"`
	CreatedAt  time.Time    `json:"created_at"`
}
