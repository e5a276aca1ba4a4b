package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/gamevault/gamevault/internal/purchase/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, purchase *domain.Purchase) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO purchases (id, account_id, title_id, key_id, price_cents, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		purchase.ID,
		purchase.AccountID,
		purchase.TitleID,
		purchase.KeyID,
		purchase.PriceCents,
		purchase.CreatedAt,
	).Error
}

func (r *repo) Exists(ctx context.Context, db *gorm.DB, accountID, titleID snowflake.ID) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM purchases WHERE account_id = ? AND title_id = ?`,
		accountID, titleID,
	).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Purchase, error) {
	var purchase domain.Purchase
	err := db.WithContext(ctx).Raw(
		`SELECT id, account_id, title_id, key_id, price_cents, created_at
		 FROM purchases WHERE id = ?`,
		id,
	).Scan(&purchase).Error
	if err != nil {
		return nil, err
	}
	if purchase.ID == 0 {
		return nil, nil
	}
	return &purchase, nil
}

func (r *repo) ListOwned(ctx context.Context, db *gorm.DB, accountID snowflake.ID) ([]*domain.OwnedItem, error) {
	var items []*domain.OwnedItem
	err := db.WithContext(ctx).Raw(
		`SELECT p.id AS purchase_id,
		        p.title_id AS title_id,
		        t.name AS title_name,
		        t.genre AS genre,
		        k.key_code AS key_code,
		        p.price_cents AS price_cents,
		        p.created_at AS created_at
		 FROM purchases p
		 JOIN titles t ON t.id = p.title_id
		 JOIN activation_keys k ON k.id = p.key_id
		 WHERE p.account_id = ?
		 ORDER BY p.created_at DESC, p.id DESC`,
		accountID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindReceipt(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Receipt, error) {
	var receipt domain.Receipt
	err := db.WithContext(ctx).Raw(
		`SELECT p.id AS purchase_id,
		        a.username AS username,
		        a.email AS email,
		        t.name AS title_name,
		        k.key_code AS key_code,
		        p.price_cents AS price_cents,
		        p.created_at AS created_at
		 FROM purchases p
		 JOIN accounts a ON a.id = p.account_id
		 JOIN titles t ON t.id = p.title_id
		 JOIN activation_keys k ON k.id = p.key_id
		 WHERE p.id = ?`,
		id,
	).Scan(&receipt).Error
	if err != nil {
		return nil, err
	}
	if receipt.PurchaseID == 0 {
		return nil, nil
	}
	return &receipt, nil
}
