package keyinv

import (
	"github.com/gamevault/gamevault/internal/keyinv/repository"
	"github.com/gamevault/gamevault/internal/keyinv/service"
	"go.uber.org/fx"
)

var Module = fx.Module("keyinv.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
