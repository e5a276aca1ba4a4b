package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gamevault/gamevault/internal/account/domain"
	"github.com/gamevault/gamevault/pkg/db/option"
	"github.com/gamevault/gamevault/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, account *domain.Account) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO accounts (id, username, password_hash, email, role, balance_cents, steam_id, metadata, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		account.ID,
		account.Username,
		account.PasswordHash,
		account.Email,
		account.Role,
		account.BalanceCents,
		account.SteamID,
		account.Metadata,
		account.CreatedAt,
		account.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Account, error) {
	var account domain.Account
	err := db.WithContext(ctx).Raw(
		`SELECT id, username, password_hash, email, role, balance_cents, steam_id, metadata, created_at, updated_at
		 FROM accounts WHERE id = ?`,
		id,
	).Scan(&account).Error
	if err != nil {
		return nil, err
	}
	if account.ID == 0 {
		return nil, nil
	}
	return &account, nil
}

func (r *repo) FindByUsername(ctx context.Context, db *gorm.DB, username string) (*domain.Account, error) {
	var account domain.Account
	err := db.WithContext(ctx).Raw(
		`SELECT id, username, password_hash, email, role, balance_cents, steam_id, metadata, created_at, updated_at
		 FROM accounts WHERE username = ?`,
		username,
	).Scan(&account).Error
	if err != nil {
		return nil, err
	}
	if account.ID == 0 {
		return nil, nil
	}
	return &account, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListAccountFilter, page pagination.Pagination) ([]*domain.Account, error) {
	var accounts []*domain.Account
	stmt := db.WithContext(ctx).Model(&domain.Account{})
	if filter.Username != "" {
		stmt = stmt.Where("username = ?", filter.Username)
	}
	if filter.Role != "" {
		stmt = stmt.Where("role = ?", filter.Role)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *repo) Search(ctx context.Context, db *gorm.DB, term string, excludeID snowflake.ID) ([]*domain.Account, error) {
	var accounts []*domain.Account
	pattern := "%" + strings.ToLower(term) + "%"
	err := db.WithContext(ctx).
		Model(&domain.Account{}).
		Where("LOWER(username) LIKE ?", pattern).
		Where("id <> ?", excludeID).
		Order("username asc").
		Limit(50).
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *repo) UpdateRole(ctx context.Context, db *gorm.DB, id snowflake.ID, role domain.Role) error {
	return db.WithContext(ctx).Exec(
		`UPDATE accounts SET role = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		role, id,
	).Error
}

func (r *repo) UpdateSteamID(ctx context.Context, db *gorm.DB, id snowflake.ID, steamID string) error {
	return db.WithContext(ctx).Exec(
		`UPDATE accounts SET steam_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		steamID, id,
	).Error
}

func (r *repo) CreditBalance(ctx context.Context, db *gorm.DB, id snowflake.ID, amountCents int64) error {
	return db.WithContext(ctx).Exec(
		`UPDATE accounts SET balance_cents = balance_cents + ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		amountCents, id,
	).Error
}

func (r *repo) DebitBalanceIfSufficient(ctx context.Context, db *gorm.DB, id snowflake.ID, amountCents int64) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE accounts
		 SET balance_cents = balance_cents - ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND balance_cents >= ?`,
		amountCents, id, amountCents,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
