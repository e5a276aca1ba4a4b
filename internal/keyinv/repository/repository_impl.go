package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/gamevault/gamevault/internal/keyinv/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, key *domain.ActivationKey) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO activation_keys (id, title_id, key_code, sold, owner_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		key.ID,
		key.TitleID,
		key.KeyCode,
		key.Sold,
		key.OwnerID,
		key.CreatedAt,
		key.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.ActivationKey, error) {
	var key domain.ActivationKey
	err := db.WithContext(ctx).Raw(
		`SELECT id, title_id, key_code, sold, owner_id, created_at, updated_at
		 FROM activation_keys WHERE id = ?`,
		id,
	).Scan(&key).Error
	if err != nil {
		return nil, err
	}
	if key.ID == 0 {
		return nil, nil
	}
	return &key, nil
}

func (r *repo) ListByTitle(ctx context.Context, db *gorm.DB, titleID snowflake.ID) ([]*domain.ActivationKey, error) {
	var keys []*domain.ActivationKey
	err := db.WithContext(ctx).
		Model(&domain.ActivationKey{}).
		Where("title_id = ?", titleID).
		Order("created_at asc, id asc").
		Find(&keys).Error
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *repo) CountAvailable(ctx context.Context, db *gorm.DB, titleID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM activation_keys WHERE title_id = ? AND sold = ?`,
		titleID, false,
	).Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repo) TitleExists(ctx context.Context, db *gorm.DB, titleID snowflake.ID) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM titles WHERE id = ?`,
		titleID,
	).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) AllocateAvailable(ctx context.Context, db *gorm.DB, titleID snowflake.ID) (*domain.ActivationKey, error) {
	var key domain.ActivationKey
	err := db.WithContext(ctx).Raw(
		`SELECT id, title_id, key_code, sold, owner_id, created_at, updated_at
		 FROM activation_keys WHERE title_id = ? AND sold = ? LIMIT 1`,
		titleID, false,
	).Scan(&key).Error
	if err != nil {
		return nil, err
	}
	if key.ID == 0 {
		return nil, nil
	}
	return &key, nil
}

func (r *repo) Assign(ctx context.Context, db *gorm.DB, keyID, ownerID snowflake.ID) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE activation_keys
		 SET sold = ?, owner_id = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND sold = ?`,
		true, ownerID, keyID, false,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
