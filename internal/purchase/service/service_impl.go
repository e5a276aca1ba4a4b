package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/gamevault/gamevault/internal/account/domain"
	catalogdomain "github.com/gamevault/gamevault/internal/catalog/domain"
	"github.com/gamevault/gamevault/internal/clock"
	keydomain "github.com/gamevault/gamevault/internal/keyinv/domain"
	"github.com/gamevault/gamevault/internal/observability/metrics"
	"github.com/gamevault/gamevault/internal/purchase/domain"
	"github.com/gamevault/gamevault/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// maxKeyAssignAttempts bounds re-allocation when a concurrent buyer wins
// the selected key between allocation and assignment.
const maxKeyAssignAttempts = 3

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	Accounts accountdomain.Repository
	Titles   catalogdomain.Repository
	Keys     keydomain.Repository
	Metrics  *metrics.Metrics `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	accounts accountdomain.Repository
	titles   catalogdomain.Repository
	keys     keydomain.Repository
	metrics  *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("purchase.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		accounts: p.Accounts,
		titles:   p.Titles,
		keys:     p.Keys,
		metrics:  p.Metrics,
	}
}

// Purchase runs the sale as one transaction: ownership check, conditional
// balance debit, key allocation, key assignment, ledger write. Either every
// effect commits or none do.
func (s *Service) Purchase(ctx context.Context, req domain.PurchaseRequest) (domain.Purchase, error) {
	accountID, err := s.parseID(req.AccountID)
	if err != nil {
		return domain.Purchase{}, err
	}
	titleID, err := s.parseID(req.TitleID)
	if err != nil {
		return domain.Purchase{}, err
	}

	priceCents, err := s.capturePrice(ctx, titleID, req.AgreedPriceCents)
	if err != nil {
		return domain.Purchase{}, err
	}

	purchase := domain.Purchase{
		ID:         s.genID.Generate(),
		AccountID:  accountID,
		TitleID:    titleID,
		PriceCents: priceCents,
		CreatedAt:  s.clock.Now(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned, err := s.repo.Exists(ctx, tx, accountID, titleID)
		if err != nil {
			return err
		}
		if owned {
			return domain.ErrAlreadyOwned
		}

		account, err := s.accounts.FindByID(ctx, tx, accountID)
		if err != nil {
			return err
		}
		if account == nil {
			return domain.ErrAccountNotFound
		}

		debited, err := s.accounts.DebitBalanceIfSufficient(ctx, tx, accountID, priceCents)
		if err != nil {
			return err
		}
		if !debited {
			return domain.ErrInsufficientFunds
		}

		keyID, err := s.allocateAndAssign(ctx, tx, titleID, accountID)
		if err != nil {
			return err
		}
		purchase.KeyID = keyID

		if err := s.repo.Insert(ctx, tx, &purchase); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrAlreadyOwned
			}
			return err
		}

		return nil
	})
	if err != nil {
		s.recordOutcome(ctx, err)
		return domain.Purchase{}, err
	}

	s.recordOutcome(ctx, nil)
	s.log.Info("purchase committed",
		zap.String("purchase_id", purchase.ID.String()),
		zap.String("account_id", accountID.String()),
		zap.String("title_id", titleID.String()),
		zap.Int64("price_cents", priceCents),
	)
	return purchase, nil
}

// allocateAndAssign picks an unsold key and flips its sold flag. Assignment
// re-validates the unsold flag, so a lost race surfaces as zero rows updated
// and a fresh key is allocated instead.
func (s *Service) allocateAndAssign(ctx context.Context, tx *gorm.DB, titleID, accountID snowflake.ID) (snowflake.ID, error) {
	for attempt := 0; attempt < maxKeyAssignAttempts; attempt++ {
		key, err := s.keys.AllocateAvailable(ctx, tx, titleID)
		if err != nil {
			return 0, err
		}
		if key == nil {
			return 0, domain.ErrOutOfStock
		}

		assigned, err := s.keys.Assign(ctx, tx, key.ID, accountID)
		if err != nil {
			return 0, err
		}
		if assigned {
			return key.ID, nil
		}
	}
	return 0, domain.ErrOutOfStock
}

func (s *Service) capturePrice(ctx context.Context, titleID snowflake.ID, agreed *int64) (int64, error) {
	title, err := s.titles.FindByID(ctx, s.db, titleID)
	if err != nil {
		return 0, err
	}
	if title == nil {
		return 0, domain.ErrTitleNotFound
	}

	if agreed == nil {
		return title.PriceCents, nil
	}
	if *agreed < 0 {
		return 0, domain.ErrInvalidPrice
	}
	return *agreed, nil
}

func (s *Service) ListOwned(ctx context.Context, req domain.ListOwnedRequest) ([]domain.OwnedItem, error) {
	accountID, err := s.parseID(req.AccountID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListOwned(ctx, s.db, accountID)
	if err != nil {
		return nil, err
	}

	owned := make([]domain.OwnedItem, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		owned = append(owned, *item)
	}
	return owned, nil
}

func (s *Service) GetReceipt(ctx context.Context, req domain.GetReceiptRequest) (domain.Receipt, error) {
	purchaseID, err := s.parseID(req.PurchaseID)
	if err != nil {
		return domain.Receipt{}, err
	}

	purchase, err := s.repo.FindByID(ctx, s.db, purchaseID)
	if err != nil {
		return domain.Receipt{}, err
	}
	if purchase == nil {
		return domain.Receipt{}, domain.ErrNotFound
	}

	if strings.TrimSpace(req.AccountID) != "" {
		accountID, err := s.parseID(req.AccountID)
		if err != nil {
			return domain.Receipt{}, err
		}
		if purchase.AccountID != accountID {
			return domain.Receipt{}, domain.ErrNotFound
		}
	}

	receipt, err := s.repo.FindReceipt(ctx, s.db, purchaseID)
	if err != nil {
		return domain.Receipt{}, err
	}
	if receipt == nil {
		return domain.Receipt{}, domain.ErrNotFound
	}

	return *receipt, nil
}

func (s *Service) recordOutcome(ctx context.Context, err error) {
	outcome := "success"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrAlreadyOwned):
		outcome = "already_owned"
	case errors.Is(err, domain.ErrInsufficientFunds):
		outcome = "insufficient_funds"
	case errors.Is(err, domain.ErrOutOfStock):
		outcome = "out_of_stock"
	default:
		outcome = "error"
	}
	s.metrics.RecordPurchase(ctx, outcome)
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
