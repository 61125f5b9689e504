package user

import (
	"github.com/axel-paillaud/ticketsync/internal/user/repository"
	"github.com/axel-paillaud/ticketsync/internal/user/service"
	"go.uber.org/fx"
)

var Module = fx.Module("user.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
