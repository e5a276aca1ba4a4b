package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/gamevault/gamevault/internal/account/domain"
	accountrepo "github.com/gamevault/gamevault/internal/account/repository"
	catalogdomain "github.com/gamevault/gamevault/internal/catalog/domain"
	catalogrepo "github.com/gamevault/gamevault/internal/catalog/repository"
	"github.com/gamevault/gamevault/internal/clock"
	keydomain "github.com/gamevault/gamevault/internal/keyinv/domain"
	purchasedomain "github.com/gamevault/gamevault/internal/purchase/domain"
	purchaserepo "github.com/gamevault/gamevault/internal/purchase/repository"
	"github.com/gamevault/gamevault/internal/social/domain"
	"github.com/gamevault/gamevault/internal/social/repository"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type fixture struct {
	svc      domain.Service
	db       *gorm.DB
	node     *snowflake.Node
	accounts accountdomain.Repository
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&accountdomain.Account{},
		&catalogdomain.Title{},
		&keydomain.ActivationKey{},
		&purchasedomain.Purchase{},
		&domain.Friendship{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	f := &fixture{
		db:       db,
		node:     node,
		accounts: accountrepo.Provide(),
		now:      now,
	}
	f.svc = New(Params{
		DB:        db,
		Log:       zap.NewNop(),
		GenID:     node,
		Clock:     clock.NewFakeClock(now),
		Repo:      repository.Provide(),
		Accounts:  f.accounts,
		Purchases: purchaserepo.Provide(),
	})
	return f
}

func (f *fixture) createAccount(t *testing.T, username string) accountdomain.Account {
	t.Helper()
	account := accountdomain.Account{
		ID:           f.node.Generate(),
		Username:     username,
		PasswordHash: "x",
		Email:        username + "@example.com",
		Role:         accountdomain.RoleCustomer,
		Metadata:     datatypes.JSONMap{},
		CreatedAt:    f.now,
		UpdatedAt:    f.now,
	}
	require.NoError(t, f.accounts.Insert(context.Background(), f.db, &account))
	return account
}

func (f *fixture) grantOwnership(t *testing.T, accountID snowflake.ID, name string) catalogdomain.Title {
	t.Helper()
	ctx := context.Background()

	title := catalogdomain.Title{
		ID:         f.node.Generate(),
		Name:       name,
		PriceCents: 999,
		CreatedAt:  f.now,
		UpdatedAt:  f.now,
	}
	require.NoError(t, catalogrepo.Provide().Insert(ctx, f.db, &title))

	key := keydomain.ActivationKey{
		ID:        f.node.Generate(),
		TitleID:   title.ID,
		KeyCode:   fmt.Sprintf("KEY-%s-%s", name, accountID),
		Sold:      true,
		OwnerID:   &accountID,
		CreatedAt: f.now,
		UpdatedAt: f.now,
	}
	require.NoError(t, f.db.WithContext(ctx).Create(&key).Error)

	purchase := purchasedomain.Purchase{
		ID:         f.node.Generate(),
		AccountID:  accountID,
		TitleID:    title.ID,
		KeyID:      key.ID,
		PriceCents: 999,
		CreatedAt:  f.now,
	}
	require.NoError(t, purchaserepo.Provide().Insert(ctx, f.db, &purchase))
	return title
}

func (f *fixture) grantExistingOwnership(t *testing.T, accountID snowflake.ID, title catalogdomain.Title) {
	t.Helper()
	ctx := context.Background()

	key := keydomain.ActivationKey{
		ID:        f.node.Generate(),
		TitleID:   title.ID,
		KeyCode:   fmt.Sprintf("KEY-%s-%s", title.Name, accountID),
		Sold:      true,
		OwnerID:   &accountID,
		CreatedAt: f.now,
		UpdatedAt: f.now,
	}
	require.NoError(t, f.db.WithContext(ctx).Create(&key).Error)

	purchase := purchasedomain.Purchase{
		ID:         f.node.Generate(),
		AccountID:  accountID,
		TitleID:    title.ID,
		KeyID:      key.ID,
		PriceCents: 999,
		CreatedAt:  f.now,
	}
	require.NoError(t, purchaserepo.Provide().Insert(ctx, f.db, &purchase))
}

func TestAddAndListFriends(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.createAccount(t, "alice")
	f.createAccount(t, "bob")

	friend, err := f.svc.AddFriend(ctx, domain.AddFriendRequest{
		AccountID:      alice.ID.String(),
		FriendUsername: "bob",
	})
	require.NoError(t, err)
	assert.Equal(t, "bob", friend.Username)

	friends, err := f.svc.ListFriends(ctx, domain.ListFriendsRequest{AccountID: alice.ID.String()})
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, "bob", friends[0].Username)
}

func TestAddFriendRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.createAccount(t, "alice")
	f.createAccount(t, "bob")

	_, err := f.svc.AddFriend(ctx, domain.AddFriendRequest{
		AccountID:      alice.ID.String(),
		FriendUsername: "alice",
	})
	assert.ErrorIs(t, err, domain.ErrSelfFriend)

	_, err = f.svc.AddFriend(ctx, domain.AddFriendRequest{
		AccountID:      alice.ID.String(),
		FriendUsername: "ghost",
	})
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	_, err = f.svc.AddFriend(ctx, domain.AddFriendRequest{
		AccountID:      alice.ID.String(),
		FriendUsername: "bob",
	})
	require.NoError(t, err)

	_, err = f.svc.AddFriend(ctx, domain.AddFriendRequest{
		AccountID:      alice.ID.String(),
		FriendUsername: "bob",
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyFriends)
}

func TestCommonGames(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.createAccount(t, "alice")
	bob := f.createAccount(t, "bob")

	shared := f.grantOwnership(t, alice.ID, "Portal2")
	f.grantExistingOwnership(t, bob.ID, shared)
	f.grantOwnership(t, alice.ID, "Factorio")
	f.grantOwnership(t, bob.ID, "Rimworld")

	_, err := f.svc.AddFriend(ctx, domain.AddFriendRequest{
		AccountID:      alice.ID.String(),
		FriendUsername: "bob",
	})
	require.NoError(t, err)

	common, err := f.svc.CommonGames(ctx, domain.CommonGamesRequest{
		AccountID: alice.ID.String(),
		FriendID:  bob.ID.String(),
	})
	require.NoError(t, err)
	require.Len(t, common, 1)
	assert.Equal(t, "Portal2", common[0].TitleName)
}

func TestCommonGamesRequiresFriendship(t *testing.T) {
	f := newFixture(t)

	alice := f.createAccount(t, "alice")
	bob := f.createAccount(t, "bob")

	_, err := f.svc.CommonGames(context.Background(), domain.CommonGamesRequest{
		AccountID: alice.ID.String(),
		FriendID:  bob.ID.String(),
	})
	assert.ErrorIs(t, err, domain.ErrNotFriends)
}
