package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/donara/internal/clock"
	"github.com/smallbiznis/donara/internal/logger"
	"github.com/smallbiznis/donara/internal/migration"
	"github.com/smallbiznis/donara/internal/server"
	"github.com/smallbiznis/donara/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		fx.Provide(RegisterSnowflake),
		logger.Module,
		db.Module,
		clock.Module,

		// Schema first, then the HTTP surface
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
