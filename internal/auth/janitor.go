package auth

import (
	"context"
	"time"

	authdomain "github.com/gamevault/gamevault/internal/auth/domain"
	"github.com/gamevault/gamevault/internal/clock"
	"github.com/gamevault/gamevault/internal/taskpool"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const janitorInterval = time.Hour

type JanitorParams struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	Sessions authdomain.Repository
	Pool     *taskpool.Pool
}

// startJanitor sweeps expired sessions on a fixed interval. Expired rows are
// already rejected on read, the sweep just keeps the table from growing.
func startJanitor(lc fx.Lifecycle, p JanitorParams) {
	log := p.Log.Named("auth.janitor")
	done := make(chan struct{})

	sweep := func(ctx context.Context) {
		deleted, err := p.Sessions.DeleteExpired(ctx, p.DB, p.Clock.Now())
		if err != nil {
			log.Warn("session sweep failed", zap.Error(err))
			return
		}
		if deleted > 0 {
			log.Info("expired sessions deleted", zap.Int64("count", deleted))
		}
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			_ = ctx
			go func() {
				ticker := time.NewTicker(janitorInterval)
				defer ticker.Stop()
				for {
					select {
					case <-done:
						return
					case <-ticker.C:
						if err := p.Pool.Submit(sweep); err != nil {
							return
						}
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			_ = ctx
			close(done)
			return nil
		},
	})
}
