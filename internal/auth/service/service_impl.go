package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/gamevault/gamevault/internal/account/domain"
	"github.com/gamevault/gamevault/internal/account/password"
	"github.com/gamevault/gamevault/internal/auth/domain"
	"github.com/gamevault/gamevault/internal/clock"
	"github.com/gamevault/gamevault/internal/observability/metrics"
	"github.com/gamevault/gamevault/internal/ratelimit"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const sessionTTL = 24 * time.Hour

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	Accounts accountdomain.Repository
	Limiter  *ratelimit.LoginLimiter `optional:"true"`
	Metrics  *metrics.Metrics        `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	accounts accountdomain.Repository
	limiter  *ratelimit.LoginLimiter
	metrics  *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("auth.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		accounts: p.Accounts,
		limiter:  p.Limiter,
		metrics:  p.Metrics,
	}
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		s.metrics.RecordLogin(ctx, "invalid")
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	if !s.limiter.Allow(ctx, username) {
		s.metrics.RecordLoginRateLimited(ctx)
		return domain.LoginResponse{}, domain.ErrRateLimited
	}

	account, err := s.accounts.FindByUsername(ctx, s.db, username)
	if err != nil {
		return domain.LoginResponse{}, err
	}
	if account == nil || !password.Verify(req.Password, account.PasswordHash) {
		s.metrics.RecordLogin(ctx, "failure")
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	token, err := newToken()
	if err != nil {
		return domain.LoginResponse{}, err
	}

	now := s.clock.Now()
	session := domain.Session{
		ID:        s.genID.Generate(),
		AccountID: account.ID,
		TokenHash: hashToken(token),
		ExpiresAt: now.Add(sessionTTL),
		CreatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &session); err != nil {
		return domain.LoginResponse{}, err
	}

	s.metrics.RecordLogin(ctx, "success")
	s.log.Info("login succeeded", zap.String("account_id", account.ID.String()))

	return domain.LoginResponse{
		Account:   *account,
		Token:     token,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	return s.repo.DeleteByTokenHash(ctx, s.db, hashToken(token))
}

func (s *Service) Resolve(ctx context.Context, token string) (accountdomain.Account, error) {
	if strings.TrimSpace(token) == "" {
		return accountdomain.Account{}, domain.ErrUnauthorized
	}

	session, err := s.repo.FindByTokenHash(ctx, s.db, hashToken(token))
	if err != nil {
		return accountdomain.Account{}, err
	}
	if session == nil {
		return accountdomain.Account{}, domain.ErrUnauthorized
	}

	if !session.ExpiresAt.After(s.clock.Now()) {
		_ = s.repo.DeleteByTokenHash(ctx, s.db, session.TokenHash)
		return accountdomain.Account{}, domain.ErrUnauthorized
	}

	account, err := s.accounts.FindByID(ctx, s.db, session.AccountID)
	if err != nil {
		return accountdomain.Account{}, err
	}
	if account == nil {
		return accountdomain.Account{}, domain.ErrUnauthorized
	}

	return *account, nil
}

func newToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
