package ticket

import (
	"github.com/axel-paillaud/ticketsync/internal/ticket/repository"
	"github.com/axel-paillaud/ticketsync/internal/ticket/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ticket.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
