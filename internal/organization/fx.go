package organization

import (
	"github.com/axel-paillaud/ticketsync/internal/organization/repository"
	"github.com/axel-paillaud/ticketsync/internal/organization/service"
	"go.uber.org/fx"
)

var Module = fx.Module("organization.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
