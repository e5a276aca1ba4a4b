package repository

import (
	"context"
	"time"

	"github.com/gamevault/gamevault/internal/auth/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, session *domain.Session) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO sessions (id, account_id, token_hash, expires_at, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		session.ID,
		session.AccountID,
		session.TokenHash,
		session.ExpiresAt,
		session.CreatedAt,
	).Error
}

func (r *repo) FindByTokenHash(ctx context.Context, db *gorm.DB, tokenHash string) (*domain.Session, error) {
	var session domain.Session
	err := db.WithContext(ctx).Raw(
		`SELECT id, account_id, token_hash, expires_at, created_at
		 FROM sessions WHERE token_hash = ?`,
		tokenHash,
	).Scan(&session).Error
	if err != nil {
		return nil, err
	}
	if session.ID == 0 {
		return nil, nil
	}
	return &session, nil
}

func (r *repo) DeleteByTokenHash(ctx context.Context, db *gorm.DB, tokenHash string) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM sessions WHERE token_hash = ?`,
		tokenHash,
	).Error
}

func (r *repo) DeleteExpired(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`DELETE FROM sessions WHERE expires_at <= ?`,
		now,
	)
	return result.RowsAffected, result.Error
}
