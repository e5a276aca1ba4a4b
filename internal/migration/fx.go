package migration

import (
	accountdomain "github.com/gamevault/gamevault/internal/account/domain"
	authdomain "github.com/gamevault/gamevault/internal/auth/domain"
	catalogdomain "github.com/gamevault/gamevault/internal/catalog/domain"
	"github.com/gamevault/gamevault/internal/config"
	keydomain "github.com/gamevault/gamevault/internal/keyinv/domain"
	purchasedomain "github.com/gamevault/gamevault/internal/purchase/domain"
	"github.com/gamevault/gamevault/internal/seed"
	socialdomain "github.com/gamevault/gamevault/internal/social/domain"
	"github.com/gamevault/gamevault/internal/steam"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// The embedded migrations are written for postgres. Other
			// dialects only show up in local setups, where the gorm
			// models carry enough schema to run.
			if err := conn.AutoMigrate(
				&accountdomain.Account{},
				&catalogdomain.Title{},
				&keydomain.ActivationKey{},
				&purchasedomain.Purchase{},
				&socialdomain.Friendship{},
				&authdomain.Session{},
				&steam.SteamGame{},
			); err != nil {
				return err
			}
		}

		if cfg.Bootstrap.EnsureAdminAccount {
			return seed.EnsureAdminAccount(conn, cfg.Bootstrap)
		}
		return nil
	}),
)
