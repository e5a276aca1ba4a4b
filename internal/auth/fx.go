package auth

import (
	"github.com/gamevault/gamevault/internal/auth/repository"
	"github.com/gamevault/gamevault/internal/auth/service"
	"github.com/gamevault/gamevault/internal/auth/session"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	session.Module,
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Invoke(startJanitor),
)
