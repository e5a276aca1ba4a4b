package steam

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/gamevault/gamevault/internal/account/domain"
	accountrepo "github.com/gamevault/gamevault/internal/account/repository"
	"github.com/gamevault/gamevault/internal/clock"
	"github.com/gamevault/gamevault/internal/validate"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type fakeFetcher struct {
	games []OwnedGame
	err   error
}

func (f *fakeFetcher) FetchOwnedLibrary(ctx context.Context, steamID string) ([]OwnedGame, error) {
	return f.games, f.err
}

func newImporterFixture(t *testing.T, fetcher LibraryFetcher) (*Importer, *gorm.DB, accountdomain.Account) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&accountdomain.Account{}, &SteamGame{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	accounts := accountrepo.Provide()
	account := accountdomain.Account{
		ID:           node.Generate(),
		Username:     "alice",
		PasswordHash: "x",
		Email:        "alice@example.com",
		Role:         accountdomain.RoleCustomer,
		SteamID:      "76561198000000001",
		Metadata:     datatypes.JSONMap{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, accounts.Insert(context.Background(), db, &account))

	importer := NewImporter(ImporterParams{
		DB:        db,
		Log:       zap.NewNop(),
		GenID:     node,
		Clock:     clock.NewFakeClock(now),
		Fetcher:   fetcher,
		Accounts:  accounts,
		Validator: validate.New(zap.NewNop()),
	})
	return importer, db, account
}

func TestImportDedupesAndSkipsFallbackNames(t *testing.T) {
	fetcher := &fakeFetcher{games: []OwnedGame{
		{AppID: 620, Name: "Portal 2", PlaytimeMinutes: 120, Developer: "Valve"},
		{AppID: 620, Name: "Portal 2", PlaytimeMinutes: 120, Developer: "Valve"},
		{AppID: 999, Name: "   ", PlaytimeMinutes: 10},
		{AppID: 440, Name: "Team Fortress 2", PlaytimeMinutes: -1},
	}}
	importer, _, account := newImporterFixture(t, fetcher)
	ctx := context.Background()

	result, err := importer.Import(ctx, account.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 2, result.Skipped)

	games, err := importer.ListImported(ctx, account.ID.String())
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, "Portal 2", games[0].Name)
	assert.Equal(t, "Team Fortress 2", games[1].Name)
	assert.Equal(t, int64(0), games[1].PlaytimeMinutes)
	assert.Equal(t, "Unknown Developer", games[1].Developer)
}

func TestImportReplacesPreviousSnapshot(t *testing.T) {
	fetcher := &fakeFetcher{games: []OwnedGame{
		{AppID: 620, Name: "Portal 2"},
	}}
	importer, _, account := newImporterFixture(t, fetcher)
	ctx := context.Background()

	_, err := importer.Import(ctx, account.ID.String())
	require.NoError(t, err)

	fetcher.games = []OwnedGame{
		{AppID: 440, Name: "Team Fortress 2"},
	}

	result, err := importer.Import(ctx, account.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)

	games, err := importer.ListImported(ctx, account.ID.String())
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "Team Fortress 2", games[0].Name)
}

func TestImportRequiresSteamID(t *testing.T) {
	importer, db, account := newImporterFixture(t, &fakeFetcher{})
	ctx := context.Background()

	require.NoError(t, db.Exec(`UPDATE accounts SET steam_id = '' WHERE id = ?`, account.ID).Error)

	_, err := importer.Import(ctx, account.ID.String())
	assert.ErrorIs(t, err, ErrNoSteamID)
}
