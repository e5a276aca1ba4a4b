package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/gamevault/gamevault/internal/account/domain"
	"github.com/gamevault/gamevault/internal/clock"
	"github.com/gamevault/gamevault/internal/observability/metrics"
	purchasedomain "github.com/gamevault/gamevault/internal/purchase/domain"
	"github.com/gamevault/gamevault/internal/social/domain"
	"github.com/gamevault/gamevault/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      domain.Repository
	Accounts  accountdomain.Repository
	Purchases purchasedomain.Repository
	Metrics   *metrics.Metrics `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      domain.Repository
	accounts  accountdomain.Repository
	purchases purchasedomain.Repository
	metrics   *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("social.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		accounts:  p.Accounts,
		purchases: p.Purchases,
		metrics:   p.Metrics,
	}
}

func (s *Service) AddFriend(ctx context.Context, req domain.AddFriendRequest) (domain.Friend, error) {
	accountID, err := s.parseID(req.AccountID)
	if err != nil {
		return domain.Friend{}, err
	}

	username := strings.TrimSpace(req.FriendUsername)
	if username == "" {
		return domain.Friend{}, domain.ErrInvalidUsername
	}

	friend, err := s.accounts.FindByUsername(ctx, s.db, username)
	if err != nil {
		return domain.Friend{}, err
	}
	if friend == nil {
		return domain.Friend{}, domain.ErrAccountNotFound
	}
	if friend.ID == accountID {
		return domain.Friend{}, domain.ErrSelfFriend
	}

	now := s.clock.Now()
	friendship := domain.Friendship{
		ID:        s.genID.Generate(),
		AccountID: accountID,
		FriendID:  friend.ID,
		CreatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &friendship); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Friend{}, domain.ErrAlreadyFriends
		}
		return domain.Friend{}, err
	}

	s.metrics.RecordFriendship(ctx)
	s.log.Info("friend added",
		zap.String("account_id", accountID.String()),
		zap.String("friend_id", friend.ID.String()),
	)

	return domain.Friend{
		AccountID: friend.ID,
		Username:  friend.Username,
		Since:     now,
	}, nil
}

func (s *Service) ListFriends(ctx context.Context, req domain.ListFriendsRequest) ([]domain.Friend, error) {
	accountID, err := s.parseID(req.AccountID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListFriends(ctx, s.db, accountID)
	if err != nil {
		return nil, err
	}

	friends := make([]domain.Friend, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		friends = append(friends, *item)
	}
	return friends, nil
}

func (s *Service) CommonGames(ctx context.Context, req domain.CommonGamesRequest) ([]domain.CommonGame, error) {
	accountID, err := s.parseID(req.AccountID)
	if err != nil {
		return nil, err
	}
	friendID, err := s.parseID(req.FriendID)
	if err != nil {
		return nil, err
	}

	linked, err := s.repo.Exists(ctx, s.db, accountID, friendID)
	if err != nil {
		return nil, err
	}
	if !linked {
		return nil, domain.ErrNotFriends
	}

	mine, err := s.purchases.ListOwned(ctx, s.db, accountID)
	if err != nil {
		return nil, err
	}
	theirs, err := s.purchases.ListOwned(ctx, s.db, friendID)
	if err != nil {
		return nil, err
	}

	owned := make(map[snowflake.ID]struct{}, len(theirs))
	for _, item := range theirs {
		if item == nil {
			continue
		}
		owned[item.TitleID] = struct{}{}
	}

	common := make([]domain.CommonGame, 0)
	for _, item := range mine {
		if item == nil {
			continue
		}
		if _, ok := owned[item.TitleID]; !ok {
			continue
		}
		common = append(common, domain.CommonGame{
			TitleID:   item.TitleID,
			TitleName: item.TitleName,
			Genre:     item.Genre,
		})
	}
	return common, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
