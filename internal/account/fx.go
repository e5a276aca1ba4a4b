package account

import (
	"github.com/gamevault/gamevault/internal/account/repository"
	"github.com/gamevault/gamevault/internal/account/service"
	"go.uber.org/fx"
)

var Module = fx.Module("account.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
