package timeentry

import (
	"github.com/axel-paillaud/ticketsync/internal/timeentry/repository"
	"github.com/axel-paillaud/ticketsync/internal/timeentry/service"
	"go.uber.org/fx"
)

var Module = fx.Module("timeentry.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
