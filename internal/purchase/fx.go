package purchase

import (
	"github.com/gamevault/gamevault/internal/purchase/repository"
	"github.com/gamevault/gamevault/internal/purchase/service"
	"go.uber.org/fx"
)

var Module = fx.Module("purchase.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
