package catalog

import (
	"github.com/gamevault/gamevault/internal/catalog/repository"
	"github.com/gamevault/gamevault/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
