package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/gamevault/gamevault/internal/clock"
	"github.com/gamevault/gamevault/internal/config"
	"github.com/gamevault/gamevault/internal/migration"
	"github.com/gamevault/gamevault/internal/observability"
	"github.com/gamevault/gamevault/internal/server"
	"github.com/gamevault/gamevault/internal/taskpool"
	"github.com/gamevault/gamevault/internal/validate"
	"github.com/gamevault/gamevault/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,
		validate.Module,
		taskpool.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func registerSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
