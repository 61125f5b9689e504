// Package alert evaluates monthly billing thresholds after time entry
// commits and dispatches alert emails to subscribed users.
package alert

import (
	"context"
	"time"

	"github.com/axel-paillaud/ticketsync/internal/clock"
	orgdomain "github.com/axel-paillaud/ticketsync/internal/organization/domain"
	tedomain "github.com/axel-paillaud/ticketsync/internal/timeentry/domain"
	userdomain "github.com/axel-paillaud/ticketsync/internal/user/domain"
	"github.com/bwmarrin/snowflake"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// SubscriberSource lists the users of an organization who enabled
// threshold alerts and configured a threshold.
type SubscriberSource interface {
	AlertSubscribers(ctx context.Context, orgID snowflake.ID) ([]userdomain.User, error)
}

// TotalSource aggregates billed amounts for a calendar month.
type TotalSource interface {
	MonthlyTotal(ctx context.Context, orgID snowflake.ID, year int, month time.Month) (float64, error)
}

// OrgSource resolves the organization an alert refers to.
type OrgSource interface {
	GetByID(ctx context.Context, id snowflake.ID) (*orgdomain.Organization, error)
}

// Mailer delivers a single threshold alert.
type Mailer interface {
	SendThresholdExceededAlert(ctx context.Context, user userdomain.User, org orgdomain.Organization, currentTotal, threshold float64) error
}

// Evaluator fires at most one alert per subscriber per threshold
// crossing. It runs synchronously in the request goroutine after the
// entry committed; every failure is logged and swallowed so the write
// is never affected.
//
// The aggregation window is the clock's current month, not the entry's
// work date month. Concurrent commits in the same organization and
// month can race between aggregate and compare; the boundary cases are
// accepted.
type Evaluator struct {
	subscribers SubscriberSource
	totals      TotalSource
	orgs        OrgSource
	mailer      Mailer
	clock       clock.Clock
	log         *zap.Logger
	alertsFired metric.Int64Counter
}

func NewEvaluator(
	subscribers SubscriberSource,
	totals TotalSource,
	orgs OrgSource,
	mailer Mailer,
	clk clock.Clock,
	log *zap.Logger,
	meter metric.Meter,
) *Evaluator {
	alertsFired, err := meter.Int64Counter("ticketsync_alerts_fired_total",
		metric.WithDescription("Number of monthly threshold alerts dispatched"))
	if err != nil {
		log.Warn("failed to register alert counter", zap.Error(err))
	}

	return &Evaluator{
		subscribers: subscribers,
		totals:      totals,
		orgs:        orgs,
		mailer:      mailer,
		clock:       clk,
		log:         log.Named("alert.evaluator"),
		alertsFired: alertsFired,
	}
}

func (e *Evaluator) EntryCommitted(ctx context.Context, entry tedomain.TimeEntry, op tedomain.Operation, priorBilledAmount float64) {
	subscribers, err := e.subscribers.AlertSubscribers(ctx, entry.OrgID)
	if err != nil {
		e.log.Warn("failed to load alert subscribers",
			zap.String("org_id", entry.OrgID.String()),
			zap.Error(err),
		)
		return
	}
	// No subscribers: skip the aggregation query entirely.
	if len(subscribers) == 0 {
		return
	}

	now := e.clock.Now()
	currentTotal, err := e.totals.MonthlyTotal(ctx, entry.OrgID, now.Year(), now.Month())
	if err != nil {
		e.log.Warn("failed to aggregate monthly total",
			zap.String("org_id", entry.OrgID.String()),
			zap.Error(err),
		)
		return
	}

	previousTotal := currentTotal - entry.BilledAmount
	if op == tedomain.OpUpdate {
		previousTotal += priorBilledAmount
	}

	org, err := e.orgs.GetByID(ctx, entry.OrgID)
	if err != nil || org == nil {
		e.log.Warn("failed to load organization for alert",
			zap.String("org_id", entry.OrgID.String()),
			zap.Error(err),
		)
		return
	}

	for _, subscriber := range subscribers {
		if subscriber.MonthlyAlertThreshold == nil {
			continue
		}
		threshold := *subscriber.MonthlyAlertThreshold
		if !(previousTotal < threshold && currentTotal >= threshold) {
			continue
		}

		if err := e.mailer.SendThresholdExceededAlert(ctx, subscriber, *org, currentTotal, threshold); err != nil {
			e.log.Warn("failed to send threshold alert",
				zap.String("org_id", entry.OrgID.String()),
				zap.String("user_id", subscriber.ID.String()),
				zap.Error(err),
			)
			continue
		}

		if e.alertsFired != nil {
			e.alertsFired.Add(ctx, 1)
		}
		e.log.Info("threshold alert fired",
			zap.String("org_id", entry.OrgID.String()),
			zap.String("user_id", subscriber.ID.String()),
			zap.Float64("threshold", threshold),
			zap.Float64("current_total", currentTotal),
		)
	}
}
