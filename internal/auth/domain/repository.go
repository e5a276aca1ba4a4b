package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, session *Session) error
	FindByTokenHash(ctx context.Context, db *gorm.DB, tokenHash string) (*Session, error)
	DeleteByTokenHash(ctx context.Context, db *gorm.DB, tokenHash string) error
	DeleteExpired(ctx context.Context, db *gorm.DB, now time.Time) (int64, error)
}
