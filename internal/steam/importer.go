package steam

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/gamevault/gamevault/internal/account/domain"
	"github.com/gamevault/gamevault/internal/clock"
	"github.com/gamevault/gamevault/internal/observability/metrics"
	"github.com/gamevault/gamevault/internal/validate"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxFieldLength = 255

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrAccountNotFound = errors.New("account_not_found")
	ErrNoSteamID       = errors.New("no_steam_id")
)

// LibraryFetcher abstracts the Steam Web API for tests.
type LibraryFetcher interface {
	FetchOwnedLibrary(ctx context.Context, steamID string) ([]OwnedGame, error)
}

type ImporterParams struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Fetcher   LibraryFetcher
	Accounts  accountdomain.Repository
	Validator *validate.Validator
	Metrics   *metrics.Metrics `optional:"true"`
}

// Importer replaces an account's imported library snapshot with a fresh
// read from the Steam Web API.
type Importer struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	fetcher   LibraryFetcher
	accounts  accountdomain.Repository
	validator *validate.Validator
	metrics   *metrics.Metrics
}

func NewImporter(p ImporterParams) *Importer {
	return &Importer{
		db:        p.DB,
		log:       p.Log.Named("steam.importer"),
		genID:     p.GenID,
		clock:     p.Clock,
		fetcher:   p.Fetcher,
		accounts:  p.Accounts,
		validator: p.Validator,
		metrics:   p.Metrics,
	}
}

type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Import fetches the account's Steam library and replaces the stored
// snapshot in one transaction. Entries whose validated name collapses to
// the fallback are skipped, as are in-batch duplicates.
func (i *Importer) Import(ctx context.Context, accountID string) (ImportResult, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(accountID))
	if err != nil || id == 0 {
		return ImportResult{}, ErrInvalidID
	}

	account, err := i.accounts.FindByID(ctx, i.db, id)
	if err != nil {
		return ImportResult{}, err
	}
	if account == nil {
		return ImportResult{}, ErrAccountNotFound
	}
	if strings.TrimSpace(account.SteamID) == "" {
		return ImportResult{}, ErrNoSteamID
	}

	games, err := i.fetcher.FetchOwnedLibrary(ctx, account.SteamID)
	if err != nil {
		i.metrics.RecordSteamImport(ctx, "fetch_failed")
		return ImportResult{}, err
	}

	now := i.clock.Now()
	seen := make(map[string]struct{}, len(games))
	rows := make([]SteamGame, 0, len(games))
	skipped := 0

	for _, game := range games {
		name := i.validator.String(game.Name, "Name", maxFieldLength)
		if i.validator.IsFallback(name, "Name") {
			skipped++
			continue
		}
		if _, ok := seen[name]; ok {
			skipped++
			continue
		}
		seen[name] = struct{}{}

		rows = append(rows, SteamGame{
			ID:              i.genID.Generate(),
			AccountID:       id,
			AppID:           game.AppID,
			Name:            name,
			PlaytimeMinutes: i.validator.Integer(game.PlaytimeMinutes, "Playtime"),
			Developer:       i.validator.String(game.Developer, "Developer", maxFieldLength),
			Publisher:       i.validator.String(game.Publisher, "Publisher", maxFieldLength),
			Genre:           i.validator.String(game.Genre, "Genre", maxFieldLength),
			Description:     i.validator.String(game.Description, "Description", maxFieldLength),
			CreatedAt:       now,
		})
	}

	err = i.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM steam_games WHERE account_id = ?`, id).Error; err != nil {
			return err
		}
		for idx := range rows {
			if err := tx.Create(&rows[idx]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		i.metrics.RecordSteamImport(ctx, "store_failed")
		return ImportResult{}, err
	}

	i.metrics.RecordSteamImport(ctx, "success")
	i.log.Info("steam library imported",
		zap.String("account_id", id.String()),
		zap.Int("imported", len(rows)),
		zap.Int("skipped", skipped),
	)

	return ImportResult{Imported: len(rows), Skipped: skipped}, nil
}

// ListImported returns the stored snapshot for an account.
func (i *Importer) ListImported(ctx context.Context, accountID string) ([]SteamGame, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(accountID))
	if err != nil || id == 0 {
		return nil, ErrInvalidID
	}

	var games []SteamGame
	err = i.db.WithContext(ctx).
		Where("account_id = ?", id).
		Order("name asc").
		Find(&games).Error
	if err != nil {
		return nil, err
	}
	return games, nil
}
