package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gamevault/gamevault/internal/catalog/domain"
	"github.com/gamevault/gamevault/internal/clock"
	"github.com/gamevault/gamevault/internal/config"
	"github.com/gamevault/gamevault/internal/validate"
	"github.com/gamevault/gamevault/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxFieldLength = 255

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      domain.Repository
	Validator *validate.Validator
	Store     *config.StoreConfigHolder
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      domain.Repository
	validator *validate.Validator
	store     *config.StoreConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("catalog.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		validator: p.Validator,
		store:     p.Store,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateTitleRequest) (domain.Title, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Title{}, domain.ErrInvalidName
	}

	priceCents := req.PriceCents
	if priceCents < 0 || priceCents > s.store.Get().MaxPriceCents {
		return domain.Title{}, domain.ErrInvalidPrice
	}

	now := s.clock.Now()
	title := domain.Title{
		ID:          s.genID.Generate(),
		Name:        s.validator.String(name, "Name", maxFieldLength),
		Description: s.validator.String(req.Description, "Description", maxFieldLength),
		PriceCents:  priceCents,
		Developer:   s.validator.String(req.Developer, "Developer", maxFieldLength),
		Publisher:   s.validator.String(req.Publisher, "Publisher", maxFieldLength),
		Genre:       s.validator.String(req.Genre, "Genre", maxFieldLength),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, &title); err != nil {
		return domain.Title{}, err
	}

	s.log.Info("title created",
		zap.String("title_id", title.ID.String()),
		zap.String("name", title.Name),
	)
	return title, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetTitleRequest) (domain.Title, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Title{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Title{}, err
	}
	if item == nil {
		return domain.Title{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) List(ctx context.Context, req domain.ListTitleRequest) (domain.ListTitleResponse, error) {
	filter := domain.ListTitleFilter{
		Genre: strings.TrimSpace(req.Genre),
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return domain.ListTitleResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(title *domain.Title) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        title.ID.String(),
			CreatedAt: title.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	titles := make([]domain.Title, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		titles = append(titles, *item)
	}

	resp := domain.ListTitleResponse{Titles: titles}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateTitleRequest) (domain.Title, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Title{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Title{}, err
	}
	if item == nil {
		return domain.Title{}, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Title{}, domain.ErrInvalidName
		}
		item.Name = s.validator.String(name, "Name", maxFieldLength)
	}
	if req.Description != nil {
		item.Description = s.validator.String(*req.Description, "Description", maxFieldLength)
	}
	if req.PriceCents != nil {
		if *req.PriceCents < 0 || *req.PriceCents > s.store.Get().MaxPriceCents {
			return domain.Title{}, domain.ErrInvalidPrice
		}
		item.PriceCents = *req.PriceCents
	}
	if req.Developer != nil {
		item.Developer = s.validator.String(*req.Developer, "Developer", maxFieldLength)
	}
	if req.Publisher != nil {
		item.Publisher = s.validator.String(*req.Publisher, "Publisher", maxFieldLength)
	}
	if req.Genre != nil {
		item.Genre = s.validator.String(*req.Genre, "Genre", maxFieldLength)
	}
	item.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return domain.Title{}, err
	}

	return *item, nil
}

func (s *Service) Delete(ctx context.Context, req domain.DeleteTitleRequest) error {
	id, err := s.parseID(req.ID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}

		keys, purchases, err := s.repo.CountReferences(ctx, tx, id)
		if err != nil {
			return err
		}
		if keys > 0 || purchases > 0 {
			return domain.ErrTitleInUse
		}

		if err := s.repo.Delete(ctx, tx, id); err != nil {
			return err
		}

		s.log.Info("title deleted", zap.String("title_id", id.String()))
		return nil
	})
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
