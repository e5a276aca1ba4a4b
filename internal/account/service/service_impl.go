package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gamevault/gamevault/internal/account/domain"
	"github.com/gamevault/gamevault/internal/account/password"
	"github.com/gamevault/gamevault/internal/clock"
	"github.com/gamevault/gamevault/internal/config"
	"github.com/gamevault/gamevault/pkg/db"
	"github.com/gamevault/gamevault/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
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
		log:   p.Log.Named("account.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
		store: p.Store,
	}
}

func (s *Service) Register(ctx context.Context, req domain.RegisterRequest) (domain.Account, error) {
	username := strings.TrimSpace(req.Username)
	if len(username) < 3 {
		return domain.Account{}, domain.ErrInvalidUsername
	}

	if len(req.Password) < 8 {
		return domain.Account{}, domain.ErrInvalidPassword
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.Account{}, domain.ErrInvalidEmail
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return domain.Account{}, err
	}

	now := s.clock.Now()
	account := domain.Account{
		ID:           s.genID.Generate(),
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		Role:         domain.RoleCustomer,
		BalanceCents: s.store.Get().SignupGrantCents,
		Metadata:     datatypes.JSONMap{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, s.db, &account); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Account{}, domain.ErrDuplicateUsername
		}
		return domain.Account{}, err
	}

	s.log.Info("account registered", zap.String("account_id", account.ID.String()))
	return account, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetAccountRequest) (domain.Account, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Account{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Account{}, err
	}
	if item == nil {
		return domain.Account{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) GetByUsername(ctx context.Context, username string) (domain.Account, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.Account{}, domain.ErrInvalidUsername
	}

	item, err := s.repo.FindByUsername(ctx, s.db, username)
	if err != nil {
		return domain.Account{}, err
	}
	if item == nil {
		return domain.Account{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) List(ctx context.Context, req domain.ListAccountRequest) (domain.ListAccountResponse, error) {
	filter := domain.ListAccountFilter{
		Username: strings.TrimSpace(req.Username),
		Role:     domain.Role(strings.ToUpper(strings.TrimSpace(req.Role))),
	}
	if req.Role == "" {
		filter.Role = ""
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
		return domain.ListAccountResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(account *domain.Account) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        account.ID.String(),
			CreatedAt: account.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	accounts := make([]domain.Account, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		accounts = append(accounts, *item)
	}

	resp := domain.ListAccountResponse{Accounts: accounts}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) Search(ctx context.Context, req domain.SearchRequest) ([]domain.Account, error) {
	term := strings.TrimSpace(req.Term)
	if term == "" {
		return nil, nil
	}

	var excludeID snowflake.ID
	if strings.TrimSpace(req.ExcludeID) != "" {
		id, err := s.parseID(req.ExcludeID)
		if err != nil {
			return nil, err
		}
		excludeID = id
	}

	items, err := s.repo.Search(ctx, s.db, term, excludeID)
	if err != nil {
		return nil, err
	}

	accounts := make([]domain.Account, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		accounts = append(accounts, *item)
	}
	return accounts, nil
}

func (s *Service) SetRole(ctx context.Context, req domain.SetRoleRequest) (domain.Account, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Account{}, err
	}

	role := domain.Role(strings.ToUpper(strings.TrimSpace(req.Role)))
	if !role.Valid() {
		return domain.Account{}, domain.ErrInvalidRole
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Account{}, err
	}
	if item == nil {
		return domain.Account{}, domain.ErrNotFound
	}

	if err := s.repo.UpdateRole(ctx, s.db, id, role); err != nil {
		return domain.Account{}, err
	}

	s.log.Info("account role updated",
		zap.String("account_id", id.String()),
		zap.String("role", string(role)),
	)

	item.Role = role
	return *item, nil
}

func (s *Service) CreditBalance(ctx context.Context, req domain.CreditBalanceRequest) (domain.Account, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Account{}, err
	}

	if req.AmountCents <= 0 {
		return domain.Account{}, domain.ErrInvalidAmount
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Account{}, err
	}
	if item == nil {
		return domain.Account{}, domain.ErrNotFound
	}

	if err := s.repo.CreditBalance(ctx, s.db, id, req.AmountCents); err != nil {
		return domain.Account{}, err
	}

	s.log.Info("balance credited",
		zap.String("account_id", id.String()),
		zap.Int64("amount_cents", req.AmountCents),
	)

	item.BalanceCents += req.AmountCents
	return *item, nil
}

func (s *Service) SetSteamID(ctx context.Context, req domain.SetSteamIDRequest) (domain.Account, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Account{}, err
	}

	steamID := strings.TrimSpace(req.SteamID)

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Account{}, err
	}
	if item == nil {
		return domain.Account{}, domain.ErrNotFound
	}

	if err := s.repo.UpdateSteamID(ctx, s.db, id, steamID); err != nil {
		return domain.Account{}, err
	}

	item.SteamID = steamID
	return *item, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
