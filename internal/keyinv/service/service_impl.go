package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gamevault/gamevault/internal/clock"
	"github.com/gamevault/gamevault/internal/config"
	"github.com/gamevault/gamevault/internal/keyinv/domain"
	"github.com/gamevault/gamevault/pkg/db"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
	Store *config.StoreConfigHolder
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
	store *config.StoreConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("keyinv.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
		store: p.Store,
	}
}

func (s *Service) Add(ctx context.Context, req domain.AddKeyRequest) (domain.ActivationKey, error) {
	titleID, err := s.parseID(req.TitleID)
	if err != nil {
		return domain.ActivationKey{}, err
	}

	keyCode := strings.TrimSpace(req.KeyCode)
	if keyCode == "" {
		return domain.ActivationKey{}, domain.ErrInvalidKey
	}

	exists, err := s.repo.TitleExists(ctx, s.db, titleID)
	if err != nil {
		return domain.ActivationKey{}, err
	}
	if !exists {
		return domain.ActivationKey{}, domain.ErrTitleNotFound
	}

	now := s.clock.Now()
	key := domain.ActivationKey{
		ID:        s.genID.Generate(),
		TitleID:   titleID,
		KeyCode:   keyCode,
		Sold:      false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &key); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.ActivationKey{}, domain.ErrDuplicateKey
		}
		return domain.ActivationKey{}, err
	}

	s.log.Info("activation key added",
		zap.String("title_id", titleID.String()),
		zap.String("key_id", key.ID.String()),
	)
	return key, nil
}

func (s *Service) AddBatch(ctx context.Context, req domain.AddKeyBatchRequest) ([]domain.ActivationKey, error) {
	titleID, err := s.parseID(req.TitleID)
	if err != nil {
		return nil, err
	}

	maxBatch := s.store.Get().MaxKeyBatchSize
	if req.Count <= 0 || req.Count > maxBatch {
		return nil, domain.ErrInvalidBatchSize
	}

	exists, err := s.repo.TitleExists(ctx, s.db, titleID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrTitleNotFound
	}

	now := s.clock.Now()
	keys := make([]domain.ActivationKey, 0, req.Count)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := 0; i < req.Count; i++ {
			key := domain.ActivationKey{
				ID:        s.genID.Generate(),
				TitleID:   titleID,
				KeyCode:   strings.ToUpper(uuid.NewString()),
				Sold:      false,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := s.repo.Insert(ctx, tx, &key); err != nil {
				return err
			}
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("activation key batch added",
		zap.String("title_id", titleID.String()),
		zap.Int("count", len(keys)),
	)
	return keys, nil
}

func (s *Service) ListByTitle(ctx context.Context, req domain.ListKeysRequest) (domain.ListKeysResponse, error) {
	titleID, err := s.parseID(req.TitleID)
	if err != nil {
		return domain.ListKeysResponse{}, err
	}

	items, err := s.repo.ListByTitle(ctx, s.db, titleID)
	if err != nil {
		return domain.ListKeysResponse{}, err
	}

	available, err := s.repo.CountAvailable(ctx, s.db, titleID)
	if err != nil {
		return domain.ListKeysResponse{}, err
	}

	keys := make([]domain.ActivationKey, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		keys = append(keys, *item)
	}

	return domain.ListKeysResponse{Keys: keys, Available: available}, nil
}

func (s *Service) CountAvailable(ctx context.Context, titleID string) (int64, error) {
	id, err := s.parseID(titleID)
	if err != nil {
		return 0, err
	}
	return s.repo.CountAvailable(ctx, s.db, id)
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
