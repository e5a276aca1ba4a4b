package social

import (
	"github.com/gamevault/gamevault/internal/social/repository"
	"github.com/gamevault/gamevault/internal/social/service"
	"go.uber.org/fx"
)

var Module = fx.Module("social.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
