package service

import (
	"context"
	"strings"
	"time"

	"github.com/axel-paillaud/ticketsync/internal/billing"
	"github.com/axel-paillaud/ticketsync/internal/clock"
	orgdomain "github.com/axel-paillaud/ticketsync/internal/organization/domain"
	ticketdomain "github.com/axel-paillaud/ticketsync/internal/ticket/domain"
	"github.com/axel-paillaud/ticketsync/internal/timeentry/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const maxHoursPerEntry = 24.0

type service struct {
	db        *gorm.DB
	repo      domain.Repository
	tickets   ticketdomain.Repository
	orgs      orgdomain.Repository
	genID     *snowflake.Node
	evaluator domain.ThresholdEvaluator
	clock     clock.Clock
	log       *zap.Logger
}

type ServiceParam struct {
	fx.In

	DB        *gorm.DB
	Repo      domain.Repository
	Tickets   ticketdomain.Repository
	Orgs      orgdomain.Repository
	GenID     *snowflake.Node
	Evaluator domain.ThresholdEvaluator
	Clock     clock.Clock
	Log       *zap.Logger
}

func NewService(p ServiceParam) domain.Service {
	return &service{
		db:        p.DB,
		repo:      p.Repo,
		tickets:   p.Tickets,
		orgs:      p.Orgs,
		genID:     p.GenID,
		evaluator: p.Evaluator,
		clock:     p.Clock,
		log:       p.Log.Named("timeentry.service"),
	}
}

func (s *service) Create(ctx context.Context, req domain.CreateTimeEntryRequest) (*domain.TimeEntry, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, domain.ErrInvalidDescription
	}
	if err := s.validateHours(req.Hours); err != nil {
		return nil, err
	}
	workDate, err := s.validateWorkDate(req.WorkDate)
	if err != nil {
		return nil, err
	}

	ticketID, err := snowflake.ParseString(strings.TrimSpace(req.TicketID))
	if err != nil {
		return nil, domain.ErrInvalidEntry
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, domain.ErrTicketNotFound
	}

	org, err := s.orgs.GetByID(ctx, ticket.OrgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrOrgNotFound
	}

	createdByID, err := snowflake.ParseString(strings.TrimSpace(req.CreatedByID))
	if err != nil {
		return nil, domain.ErrInvalidEntry
	}

	now := s.clock.Now()
	billedHours := billing.RoundUpToHalfHour(req.Hours)
	entry := domain.TimeEntry{
		ID:                 s.genID.Generate(),
		TicketID:           ticket.ID,
		OrgID:              ticket.OrgID,
		CreatedByID:        createdByID,
		Description:        description,
		WorkDate:           datatypes.Date(workDate),
		Hours:              req.Hours,
		BilledHours:        billedHours,
		HourlyRateSnapshot: org.HourlyRate,
		BilledAmount:       billing.Amount(billedHours, org.HourlyRate),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	// Post-commit: the evaluator never rolls back the write.
	s.evaluator.EntryCommitted(ctx, entry, domain.OpCreate, 0)

	return &entry, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*domain.TimeEntry, error) {
	return s.getEntry(ctx, id)
}

func (s *service) Update(ctx context.Context, id string, req domain.UpdateTimeEntryRequest) (*domain.TimeEntry, error) {
	entry, err := s.getEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return nil, domain.ErrInvalidDescription
		}
		entry.Description = description
	}
	if req.Hours != nil {
		if err := s.validateHours(*req.Hours); err != nil {
			return nil, err
		}
		entry.Hours = *req.Hours
	}
	if req.WorkDate != nil {
		workDate, err := s.validateWorkDate(*req.WorkDate)
		if err != nil {
			return nil, err
		}
		entry.WorkDate = datatypes.Date(workDate)
	}

	// Recompute with the snapshot taken at creation, never the
	// organization's current rate.
	priorAmount := entry.BilledAmount
	entry.BilledHours = billing.RoundUpToHalfHour(entry.Hours)
	entry.BilledAmount = billing.Amount(entry.BilledHours, entry.HourlyRateSnapshot)
	entry.UpdatedAt = s.clock.Now()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Update(ctx, *entry)
	})
	if err != nil {
		return nil, err
	}

	if entry.BilledAmount != priorAmount {
		s.evaluator.EntryCommitted(ctx, *entry, domain.OpUpdate, priorAmount)
	}

	return entry, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	entry, err := s.getEntry(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, entry.ID); err != nil {
		return err
	}
	s.log.Info("time entry deleted",
		zap.String("entry_id", entry.ID.String()),
		zap.String("org_id", entry.OrgID.String()),
		zap.Float64("billed_amount", entry.BilledAmount),
	)
	return nil
}

func (s *service) ListByTicket(ctx context.Context, ticketID string) ([]domain.TimeEntry, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(ticketID))
	if err != nil {
		return nil, domain.ErrInvalidEntry
	}
	return s.repo.ListByTicket(ctx, id)
}

func (s *service) ListByOrganization(ctx context.Context, orgID string) ([]domain.TimeEntry, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(orgID))
	if err != nil {
		return nil, domain.ErrInvalidEntry
	}
	return s.repo.ListByOrganization(ctx, id)
}

func (s *service) ListByDateRange(ctx context.Context, orgID string, start, end time.Time) ([]domain.TimeEntry, error) {
	if end.Before(start) {
		return nil, domain.ErrInvalidEntry
	}

	var filter *snowflake.ID
	if strings.TrimSpace(orgID) != "" {
		id, err := snowflake.ParseString(strings.TrimSpace(orgID))
		if err != nil {
			return nil, domain.ErrInvalidEntry
		}
		filter = &id
	}
	return s.repo.ListByDateRange(ctx, filter, truncateToDay(start), truncateToDay(end))
}

func (s *service) MonthlyTotal(ctx context.Context, orgID string, year int, month time.Month) (float64, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(orgID))
	if err != nil {
		return 0, domain.ErrInvalidEntry
	}
	if month < time.January || month > time.December || year < 2000 {
		return 0, domain.ErrInvalidEntry
	}
	return s.repo.MonthlyTotal(ctx, id, year, month)
}

func (s *service) validateHours(hours float64) error {
	if hours <= 0 || hours > maxHoursPerEntry {
		return domain.ErrInvalidHours
	}
	return nil
}

func (s *service) validateWorkDate(workDate time.Time) (time.Time, error) {
	if workDate.IsZero() {
		return time.Time{}, domain.ErrInvalidWorkDate
	}
	day := truncateToDay(workDate)
	today := truncateToDay(s.clock.Now())
	if day.After(today) {
		return time.Time{}, domain.ErrInvalidWorkDate
	}
	return day, nil
}

func (s *service) getEntry(ctx context.Context, id string) (*domain.TimeEntry, error) {
	entryID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidEntry
	}
	entry, err := s.repo.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, domain.ErrNotFound
	}
	return entry, nil
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
