package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/gamevault/gamevault/internal/account/domain"
	accountrepo "github.com/gamevault/gamevault/internal/account/repository"
	catalogdomain "github.com/gamevault/gamevault/internal/catalog/domain"
	catalogrepo "github.com/gamevault/gamevault/internal/catalog/repository"
	"github.com/gamevault/gamevault/internal/clock"
	keydomain "github.com/gamevault/gamevault/internal/keyinv/domain"
	keyrepo "github.com/gamevault/gamevault/internal/keyinv/repository"
	"github.com/gamevault/gamevault/internal/purchase/domain"
	purchaserepo "github.com/gamevault/gamevault/internal/purchase/repository"
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
	keys     keydomain.Repository
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithDSN(t, fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
}

func newFixtureWithDSN(t *testing.T, dsn string) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&accountdomain.Account{},
		&catalogdomain.Title{},
		&keydomain.ActivationKey{},
		&domain.Purchase{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	f := &fixture{
		db:       db,
		node:     node,
		accounts: accountrepo.Provide(),
		keys:     keyrepo.Provide(),
		now:      now,
	}
	f.svc = New(Params{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    clock.NewFakeClock(now),
		Repo:     purchaserepo.Provide(),
		Accounts: f.accounts,
		Titles:   catalogrepo.Provide(),
		Keys:     f.keys,
	})
	return f
}

func (f *fixture) createAccount(t *testing.T, username string, balanceCents int64) accountdomain.Account {
	t.Helper()
	account := accountdomain.Account{
		ID:           f.node.Generate(),
		Username:     username,
		PasswordHash: "x",
		Email:        username + "@example.com",
		Role:         accountdomain.RoleCustomer,
		BalanceCents: balanceCents,
		Metadata:     datatypes.JSONMap{},
		CreatedAt:    f.now,
		UpdatedAt:    f.now,
	}
	require.NoError(t, f.accounts.Insert(context.Background(), f.db, &account))
	return account
}

func (f *fixture) createTitle(t *testing.T, name string, priceCents int64) catalogdomain.Title {
	t.Helper()
	title := catalogdomain.Title{
		ID:          f.node.Generate(),
		Name:        name,
		Description: "No description available",
		PriceCents:  priceCents,
		CreatedAt:   f.now,
		UpdatedAt:   f.now,
	}
	require.NoError(t, catalogrepo.Provide().Insert(context.Background(), f.db, &title))
	return title
}

func (f *fixture) addKey(t *testing.T, titleID snowflake.ID, code string) keydomain.ActivationKey {
	t.Helper()
	key := keydomain.ActivationKey{
		ID:        f.node.Generate(),
		TitleID:   titleID,
		KeyCode:   code,
		CreatedAt: f.now,
		UpdatedAt: f.now,
	}
	require.NoError(t, f.keys.Insert(context.Background(), f.db, &key))
	return key
}

func (f *fixture) balanceOf(t *testing.T, id snowflake.ID) int64 {
	t.Helper()
	account, err := f.accounts.FindByID(context.Background(), f.db, id)
	require.NoError(t, err)
	require.NotNil(t, account)
	return account.BalanceCents
}

func TestPurchaseHappyPath(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	buyer := f.createAccount(t, "alice", 10000)
	title := f.createTitle(t, "Portal 2", 5999)
	f.addKey(t, title.ID, "AAAA-BBBB-CCCC")
	f.addKey(t, title.ID, "DDDD-EEEE-FFFF")

	purchase, err := f.svc.Purchase(ctx, domain.PurchaseRequest{
		AccountID: buyer.ID.String(),
		TitleID:   title.ID.String(),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(5999), purchase.PriceCents)
	assert.Equal(t, int64(4001), f.balanceOf(t, buyer.ID))

	available, err := f.keys.CountAvailable(ctx, f.db, title.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), available)

	key, err := f.keys.FindByID(ctx, f.db, purchase.KeyID)
	require.NoError(t, err)
	require.NotNil(t, key)
	assert.True(t, key.Sold)
	require.NotNil(t, key.OwnerID)
	assert.Equal(t, buyer.ID, *key.OwnerID)

	owned, err := f.svc.ListOwned(ctx, domain.ListOwnedRequest{AccountID: buyer.ID.String()})
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, "Portal 2", owned[0].TitleName)
	assert.Equal(t, key.KeyCode, owned[0].KeyCode)
}

func TestPurchaseInsufficientFunds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	buyer := f.createAccount(t, "bob", 1000)
	title := f.createTitle(t, "Portal 2", 5999)
	f.addKey(t, title.ID, "AAAA-BBBB-CCCC")

	_, err := f.svc.Purchase(ctx, domain.PurchaseRequest{
		AccountID: buyer.ID.String(),
		TitleID:   title.ID.String(),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	assert.Equal(t, int64(1000), f.balanceOf(t, buyer.ID))
	available, err := f.keys.CountAvailable(ctx, f.db, title.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), available)
}

func TestPurchaseOutOfStockLeavesBalanceIntact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	buyer := f.createAccount(t, "carol", 10000)
	title := f.createTitle(t, "Portal 2", 5999)

	_, err := f.svc.Purchase(ctx, domain.PurchaseRequest{
		AccountID: buyer.ID.String(),
		TitleID:   title.ID.String(),
	})
	assert.ErrorIs(t, err, domain.ErrOutOfStock)

	// the debit inside the failed transaction must not survive
	assert.Equal(t, int64(10000), f.balanceOf(t, buyer.ID))
}

func TestPurchaseAlreadyOwned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	buyer := f.createAccount(t, "dave", 20000)
	title := f.createTitle(t, "Portal 2", 5999)
	f.addKey(t, title.ID, "AAAA-BBBB-CCCC")
	f.addKey(t, title.ID, "DDDD-EEEE-FFFF")

	_, err := f.svc.Purchase(ctx, domain.PurchaseRequest{
		AccountID: buyer.ID.String(),
		TitleID:   title.ID.String(),
	})
	require.NoError(t, err)

	_, err = f.svc.Purchase(ctx, domain.PurchaseRequest{
		AccountID: buyer.ID.String(),
		TitleID:   title.ID.String(),
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyOwned)

	assert.Equal(t, int64(20000-5999), f.balanceOf(t, buyer.ID))
	available, err := f.keys.CountAvailable(ctx, f.db, title.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), available)
}

func TestPurchaseLastKeyExactlyOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.createAccount(t, "erin", 10000)
	second := f.createAccount(t, "frank", 10000)
	title := f.createTitle(t, "Portal 2", 5999)
	f.addKey(t, title.ID, "AAAA-BBBB-CCCC")

	_, err := f.svc.Purchase(ctx, domain.PurchaseRequest{
		AccountID: first.ID.String(),
		TitleID:   title.ID.String(),
	})
	require.NoError(t, err)

	_, err = f.svc.Purchase(ctx, domain.PurchaseRequest{
		AccountID: second.ID.String(),
		TitleID:   title.ID.String(),
	})
	assert.ErrorIs(t, err, domain.ErrOutOfStock)

	assert.Equal(t, int64(10000), f.balanceOf(t, second.ID))
}

func TestConcurrentPurchasesLastKey(t *testing.T) {
	// A file-backed database with immediate transactions and a busy timeout
	// lets both purchase transactions run on real interleaving instead of
	// failing fast on the shared-cache lock.
	dsn := fmt.Sprintf("file:%s?_txlock=immediate&_pragma=busy_timeout(10000)",
		filepath.Join(t.TempDir(), "purchase.db"))
	f := newFixtureWithDSN(t, dsn)
	ctx := context.Background()

	first := f.createAccount(t, "nina", 10000)
	second := f.createAccount(t, "oscar", 10000)
	title := f.createTitle(t, "Portal 2", 5999)
	f.addKey(t, title.ID, "AAAA-BBBB-CCCC")

	start := make(chan struct{})
	results := make(chan error, 2)
	for _, buyer := range []snowflake.ID{first.ID, second.ID} {
		go func(accountID string) {
			<-start
			_, err := f.svc.Purchase(ctx, domain.PurchaseRequest{
				AccountID: accountID,
				TitleID:   title.ID.String(),
			})
			results <- err
		}(buyer.String())
	}
	close(start)

	var won, outOfStock int
	for i := 0; i < 2; i++ {
		switch err := <-results; {
		case err == nil:
			won++
		case errors.Is(err, domain.ErrOutOfStock):
			outOfStock++
		default:
			t.Fatalf("unexpected purchase error: %v", err)
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, 1, outOfStock)

	available, err := f.keys.CountAvailable(ctx, f.db, title.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), available)

	var purchases int64
	require.NoError(t, f.db.Model(&domain.Purchase{}).Count(&purchases).Error)
	assert.Equal(t, int64(1), purchases)

	// exactly one debit across the pair; the loser keeps their funds
	combined := f.balanceOf(t, first.ID) + f.balanceOf(t, second.ID)
	assert.Equal(t, int64(10000+10000-5999), combined)
}

func TestAssignRevalidatesUnsoldFlag(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	winner := f.createAccount(t, "grace", 10000)
	loser := f.createAccount(t, "heidi", 10000)
	title := f.createTitle(t, "Portal 2", 5999)
	key := f.addKey(t, title.ID, "AAAA-BBBB-CCCC")

	// both buyers selected the same nominally available key
	assigned, err := f.keys.Assign(ctx, f.db, key.ID, winner.ID)
	require.NoError(t, err)
	assert.True(t, assigned)

	assigned, err = f.keys.Assign(ctx, f.db, key.ID, loser.ID)
	require.NoError(t, err)
	assert.False(t, assigned)

	stored, err := f.keys.FindByID(ctx, f.db, key.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.OwnerID)
	assert.Equal(t, winner.ID, *stored.OwnerID)
}

func TestPurchaseZeroBalanceFloor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	buyer := f.createAccount(t, "ivan", 5999)
	title := f.createTitle(t, "Portal 2", 5999)
	f.addKey(t, title.ID, "AAAA-BBBB-CCCC")

	_, err := f.svc.Purchase(ctx, domain.PurchaseRequest{
		AccountID: buyer.ID.String(),
		TitleID:   title.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), f.balanceOf(t, buyer.ID))
}

func TestPurchaseAgreedPricePinsCharge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	buyer := f.createAccount(t, "judy", 10000)
	title := f.createTitle(t, "Portal 2", 5999)
	f.addKey(t, title.ID, "AAAA-BBBB-CCCC")

	agreed := int64(4999)
	purchase, err := f.svc.Purchase(ctx, domain.PurchaseRequest{
		AccountID:        buyer.ID.String(),
		TitleID:          title.ID.String(),
		AgreedPriceCents: &agreed,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4999), purchase.PriceCents)
	assert.Equal(t, int64(5001), f.balanceOf(t, buyer.ID))
}

func TestPurchaseUnknownTitle(t *testing.T) {
	f := newFixture(t)

	buyer := f.createAccount(t, "kate", 10000)
	_, err := f.svc.Purchase(context.Background(), domain.PurchaseRequest{
		AccountID: buyer.ID.String(),
		TitleID:   f.node.Generate().String(),
	})
	assert.ErrorIs(t, err, domain.ErrTitleNotFound)
}

func TestGetReceiptScopedToBuyer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	buyer := f.createAccount(t, "lena", 10000)
	other := f.createAccount(t, "mallory", 10000)
	title := f.createTitle(t, "Portal 2", 5999)
	f.addKey(t, title.ID, "AAAA-BBBB-CCCC")

	purchase, err := f.svc.Purchase(ctx, domain.PurchaseRequest{
		AccountID: buyer.ID.String(),
		TitleID:   title.ID.String(),
	})
	require.NoError(t, err)

	receipt, err := f.svc.GetReceipt(ctx, domain.GetReceiptRequest{
		PurchaseID: purchase.ID.String(),
		AccountID:  buyer.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "lena", receipt.Username)
	assert.Equal(t, "Portal 2", receipt.TitleName)
	assert.Equal(t, int64(5999), receipt.PriceCents)

	_, err = f.svc.GetReceipt(ctx, domain.GetReceiptRequest{
		PurchaseID: purchase.ID.String(),
		AccountID:  other.ID.String(),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
