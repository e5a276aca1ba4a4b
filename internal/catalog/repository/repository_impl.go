package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/gamevault/gamevault/internal/catalog/domain"
	"github.com/gamevault/gamevault/pkg/db/option"
	"github.com/gamevault/gamevault/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, title *domain.Title) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO titles (id, name, description, price_cents, developer, publisher, genre, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		title.ID,
		title.Name,
		title.Description,
		title.PriceCents,
		title.Developer,
		title.Publisher,
		title.Genre,
		title.CreatedAt,
		title.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Title, error) {
	var title domain.Title
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, description, price_cents, developer, publisher, genre, created_at, updated_at
		 FROM titles WHERE id = ?`,
		id,
	).Scan(&title).Error
	if err != nil {
		return nil, err
	}
	if title.ID == 0 {
		return nil, nil
	}
	return &title, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListTitleFilter, page pagination.Pagination) ([]*domain.Title, error) {
	var titles []*domain.Title
	stmt := db.WithContext(ctx).Model(&domain.Title{})
	if filter.Genre != "" {
		stmt = stmt.Where("genre = ?", filter.Genre)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&titles).Error
	if err != nil {
		return nil, err
	}
	return titles, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, title *domain.Title) error {
	return db.WithContext(ctx).Exec(
		`UPDATE titles
		 SET name = ?, description = ?, price_cents = ?, developer = ?, publisher = ?, genre = ?, updated_at = ?
		 WHERE id = ?`,
		title.Name,
		title.Description,
		title.PriceCents,
		title.Developer,
		title.Publisher,
		title.Genre,
		title.UpdatedAt,
		title.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM titles WHERE id = ?`, id).Error
}

func (r *repo) CountReferences(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, int64, error) {
	var keys int64
	if err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM activation_keys WHERE title_id = ?`, id,
	).Scan(&keys).Error; err != nil {
		return 0, 0, err
	}

	var purchases int64
	if err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM purchases WHERE title_id = ?`, id,
	).Scan(&purchases).Error; err != nil {
		return 0, 0, err
	}

	return keys, purchases, nil
}
