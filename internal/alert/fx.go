package alert

import (
	"github.com/axel-paillaud/ticketsync/internal/clock"
	"github.com/axel-paillaud/ticketsync/internal/notification"
	orgdomain "github.com/axel-paillaud/ticketsync/internal/organization/domain"
	tedomain "github.com/axel-paillaud/ticketsync/internal/timeentry/domain"
	userdomain "github.com/axel-paillaud/ticketsync/internal/user/domain"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Param struct {
	fx.In

	Users   userdomain.Repository
	Entries tedomain.Repository
	Orgs    orgdomain.Repository
	Mailer  notification.Mailer
	Clock   clock.Clock
	Log     *zap.Logger
	Meter   metric.Meter
}

var Module = fx.Module("alert.evaluator",
	fx.Provide(func(p Param) tedomain.ThresholdEvaluator {
		return NewEvaluator(p.Users, p.Entries, p.Orgs, p.Mailer, p.Clock, p.Log, p.Meter)
	}),
)
