package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/konektanet/konekta/internal/config"
	"github.com/konektanet/konekta/internal/logger"
	"github.com/konektanet/konekta/internal/migration"
	"github.com/konektanet/konekta/internal/seed"
	"github.com/konektanet/konekta/internal/server"
	"github.com/konektanet/konekta/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		seed.Module,
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
