package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gamevault/gamevault/internal/account/domain"
	"github.com/gamevault/gamevault/internal/account/password"
	"github.com/gamevault/gamevault/internal/account/repository"
	"github.com/gamevault/gamevault/internal/clock"
	"github.com/gamevault/gamevault/internal/config"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Account{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)),
		Repo:  repository.Provide(),
		Store: config.NewStaticStoreConfigHolder(config.StoreConfig{SignupGrantCents: 10000}),
	})
	return svc, db
}

func TestRegisterDefaultsAndGrant(t *testing.T) {
	svc, _ := newTestService(t)

	account, err := svc.Register(context.Background(), domain.RegisterRequest{
		Username: "alice",
		Password: "correct horse",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.RoleCustomer, account.Role)
	assert.Equal(t, int64(10000), account.BalanceCents)
	assert.True(t, password.Verify("correct horse", account.PasswordHash))
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.RegisterRequest{
		Username: "alice",
		Password: "correct horse",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, domain.RegisterRequest{
		Username: "alice",
		Password: "another horse",
		Email:    "other@example.com",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateUsername)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.RegisterRequest{Username: "al", Password: "correct horse", Email: "a@b.c"})
	assert.ErrorIs(t, err, domain.ErrInvalidUsername)

	_, err = svc.Register(ctx, domain.RegisterRequest{Username: "alice", Password: "short", Email: "a@b.c"})
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)

	_, err = svc.Register(ctx, domain.RegisterRequest{Username: "alice", Password: "correct horse", Email: "nomail"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
}

func TestSetRole(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	account, err := svc.Register(ctx, domain.RegisterRequest{
		Username: "bob",
		Password: "correct horse",
		Email:    "bob@example.com",
	})
	require.NoError(t, err)

	updated, err := svc.SetRole(ctx, domain.SetRoleRequest{ID: account.ID.String(), Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, updated.Role)

	fetched, err := svc.GetByID(ctx, domain.GetAccountRequest{ID: account.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, fetched.Role)

	_, err = svc.SetRole(ctx, domain.SetRoleRequest{ID: account.ID.String(), Role: "SUPERUSER"})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestCreditBalance(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	account, err := svc.Register(ctx, domain.RegisterRequest{
		Username: "carol",
		Password: "correct horse",
		Email:    "carol@example.com",
	})
	require.NoError(t, err)

	updated, err := svc.CreditBalance(ctx, domain.CreditBalanceRequest{ID: account.ID.String(), AmountCents: 2500})
	require.NoError(t, err)
	assert.Equal(t, int64(12500), updated.BalanceCents)

	_, err = svc.CreditBalance(ctx, domain.CreditBalanceRequest{ID: account.ID.String(), AmountCents: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestSearchExcludesCaller(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	alice, err := svc.Register(ctx, domain.RegisterRequest{Username: "alice", Password: "correct horse", Email: "a@b.c"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, domain.RegisterRequest{Username: "alicia", Password: "correct horse", Email: "a2@b.c"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, domain.RegisterRequest{Username: "bob", Password: "correct horse", Email: "b@b.c"})
	require.NoError(t, err)

	results, err := svc.Search(ctx, domain.SearchRequest{Term: "ALI", ExcludeID: alice.ID.String()})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "alicia", results[0].Username)
}

func TestGetByUsernameNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
