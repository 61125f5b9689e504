package main

import (
	"github.com/axel-paillaud/ticketsync/internal/alert"
	"github.com/axel-paillaud/ticketsync/internal/clock"
	"github.com/axel-paillaud/ticketsync/internal/config"
	"github.com/axel-paillaud/ticketsync/internal/logger"
	"github.com/axel-paillaud/ticketsync/internal/migration"
	"github.com/axel-paillaud/ticketsync/internal/notification"
	"github.com/axel-paillaud/ticketsync/internal/observability"
	"github.com/axel-paillaud/ticketsync/internal/organization"
	"github.com/axel-paillaud/ticketsync/internal/server"
	"github.com/axel-paillaud/ticketsync/internal/ticket"
	"github.com/axel-paillaud/ticketsync/internal/timeentry"
	"github.com/axel-paillaud/ticketsync/internal/user"
	"github.com/axel-paillaud/ticketsync/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		// Domain modules
		organization.Module,
		user.Module,
		ticket.Module,
		timeentry.Module,
		notification.Module,
		alert.Module,

		// Startup tasks and HTTP surface
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
