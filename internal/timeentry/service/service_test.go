package service

import (
	"context"
	"testing"
	"time"

	"github.com/axel-paillaud/ticketsync/internal/clock"
	orgdomain "github.com/axel-paillaud/ticketsync/internal/organization/domain"
	orgrepo "github.com/axel-paillaud/ticketsync/internal/organization/repository"
	ticketdomain "github.com/axel-paillaud/ticketsync/internal/ticket/domain"
	ticketrepo "github.com/axel-paillaud/ticketsync/internal/ticket/repository"
	"github.com/axel-paillaud/ticketsync/internal/timeentry/domain"
	"github.com/axel-paillaud/ticketsync/internal/timeentry/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type evaluatorStub struct {
	calls []evaluatorCall
}

type evaluatorCall struct {
	entry domain.TimeEntry
	op    domain.Operation
	prior float64
}

func (e *evaluatorStub) EntryCommitted(_ context.Context, entry domain.TimeEntry, op domain.Operation, prior float64) {
	e.calls = append(e.calls, evaluatorCall{entry: entry, op: op, prior: prior})
}

type fixture struct {
	db        *gorm.DB
	svc       domain.Service
	evaluator *evaluatorStub
	clock     *clock.FakeClock
	org       orgdomain.Organization
	ticket    ticketdomain.Ticket
	userID    snowflake.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&orgdomain.Organization{},
		&ticketdomain.Status{}, &ticketdomain.Priority{}, &ticketdomain.Ticket{},
		&domain.TimeEntry{},
	))
	t.Cleanup(func() {
		for _, table := range []string{"time_entries", "tickets", "priorities", "statuses", "organizations"} {
			db.Exec("DELETE FROM " + table)
		}
	})

	node, err := snowflake.NewNode(3)
	require.NoError(t, err)

	org := orgdomain.Organization{
		ID:         node.Generate(),
		Name:       "Acme",
		Slug:       "acme",
		IsActive:   true,
		HourlyRate: 80.00,
	}
	require.NoError(t, db.Create(&org).Error)

	status := ticketdomain.Status{ID: node.Generate(), Name: "Open", Slug: "open"}
	priority := ticketdomain.Priority{ID: node.Generate(), Name: "normal", Level: 2}
	require.NoError(t, db.Create(&status).Error)
	require.NoError(t, db.Create(&priority).Error)

	userID := node.Generate()
	ticket := ticketdomain.Ticket{
		ID:          node.Generate(),
		Title:       "Billable work",
		OrgID:       org.ID,
		CreatedByID: userID,
		StatusID:    status.ID,
		PriorityID:  priority.ID,
	}
	require.NoError(t, db.Create(&ticket).Error)

	evaluator := &evaluatorStub{}
	clk := clock.NewFakeClock(time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC))

	svc := NewService(ServiceParam{
		DB:        db,
		Repo:      repository.NewRepository(db),
		Tickets:   ticketrepo.NewRepository(db),
		Orgs:      orgrepo.NewRepository(db),
		GenID:     node,
		Evaluator: evaluator,
		Clock:     clk,
		Log:       zap.NewNop(),
	})

	return &fixture{
		db:        db,
		svc:       svc,
		evaluator: evaluator,
		clock:     clk,
		org:       org,
		ticket:    ticket,
		userID:    userID,
	}
}

func (f *fixture) create(t *testing.T, hours float64, workDate time.Time) *domain.TimeEntry {
	t.Helper()
	entry, err := f.svc.Create(context.Background(), domain.CreateTimeEntryRequest{
		TicketID:    f.ticket.ID.String(),
		CreatedByID: f.userID.String(),
		Description: "debugging",
		Hours:       hours,
		WorkDate:    workDate,
	})
	require.NoError(t, err)
	return entry
}

func TestCreateDerivesBilledFigures(t *testing.T) {
	f := newFixture(t)

	entry := f.create(t, 1.1, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 1.5, entry.BilledHours)
	assert.Equal(t, 80.00, entry.HourlyRateSnapshot)
	assert.Equal(t, 120.00, entry.BilledAmount)

	require.Len(t, f.evaluator.calls, 1)
	call := f.evaluator.calls[0]
	assert.Equal(t, domain.OpCreate, call.op)
	assert.Equal(t, 0.0, call.prior)
	assert.Equal(t, entry.ID, call.entry.ID)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	yesterday := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		req  domain.CreateTimeEntryRequest
		want error
	}{
		{
			name: "empty description",
			req:  domain.CreateTimeEntryRequest{TicketID: f.ticket.ID.String(), CreatedByID: f.userID.String(), Description: "  ", Hours: 1, WorkDate: yesterday},
			want: domain.ErrInvalidDescription,
		},
		{
			name: "zero hours",
			req:  domain.CreateTimeEntryRequest{TicketID: f.ticket.ID.String(), CreatedByID: f.userID.String(), Description: "x", Hours: 0, WorkDate: yesterday},
			want: domain.ErrInvalidHours,
		},
		{
			name: "too many hours",
			req:  domain.CreateTimeEntryRequest{TicketID: f.ticket.ID.String(), CreatedByID: f.userID.String(), Description: "x", Hours: 24.5, WorkDate: yesterday},
			want: domain.ErrInvalidHours,
		},
		{
			name: "future work date",
			req:  domain.CreateTimeEntryRequest{TicketID: f.ticket.ID.String(), CreatedByID: f.userID.String(), Description: "x", Hours: 1, WorkDate: time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)},
			want: domain.ErrInvalidWorkDate,
		},
		{
			name: "unknown ticket",
			req:  domain.CreateTimeEntryRequest{TicketID: "999999999", CreatedByID: f.userID.String(), Description: "x", Hours: 1, WorkDate: yesterday},
			want: domain.ErrTicketNotFound,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Empty(t, f.evaluator.calls)
}

func TestWorkDateTodayIsAllowed(t *testing.T) {
	f := newFixture(t)
	entry := f.create(t, 2, time.Date(2025, 3, 15, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, 2.0, entry.BilledHours)
}

func TestUpdateShortCircuitsWhenAmountUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entry := f.create(t, 1.1, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC))
	require.Len(t, f.evaluator.calls, 1)

	// 1.2 rounds to the same 1.5 billed hours: no evaluator call.
	hours := 1.2
	updated, err := f.svc.Update(ctx, entry.ID.String(), domain.UpdateTimeEntryRequest{Hours: &hours})
	require.NoError(t, err)
	assert.Equal(t, 1.5, updated.BilledHours)
	assert.Equal(t, 120.00, updated.BilledAmount)
	assert.Len(t, f.evaluator.calls, 1)

	// 2.1 rounds up: evaluator fires with the prior amount.
	hours = 2.1
	updated, err = f.svc.Update(ctx, entry.ID.String(), domain.UpdateTimeEntryRequest{Hours: &hours})
	require.NoError(t, err)
	assert.Equal(t, 2.5, updated.BilledHours)
	assert.Equal(t, 200.00, updated.BilledAmount)
	require.Len(t, f.evaluator.calls, 2)
	assert.Equal(t, domain.OpUpdate, f.evaluator.calls[1].op)
	assert.Equal(t, 120.00, f.evaluator.calls[1].prior)
}

func TestSnapshotSurvivesRateChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entry := f.create(t, 1, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 80.00, entry.HourlyRateSnapshot)

	require.NoError(t, f.db.Model(&orgdomain.Organization{}).
		Where("id = ?", f.org.ID).
		Update("hourly_rate", 120.00).Error)

	hours := 3.0
	updated, err := f.svc.Update(ctx, entry.ID.String(), domain.UpdateTimeEntryRequest{Hours: &hours})
	require.NoError(t, err)
	assert.Equal(t, 80.00, updated.HourlyRateSnapshot)
	assert.Equal(t, 240.00, updated.BilledAmount)
}

func TestMonthlyTotalWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.create(t, 1, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))  // first day, 80
	f.create(t, 1, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)) // mid month, 80
	f.create(t, 1, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)) // previous month

	total, err := f.svc.MonthlyTotal(ctx, f.org.ID.String(), 2025, time.March)
	require.NoError(t, err)
	assert.Equal(t, 160.00, total)

	total, err = f.svc.MonthlyTotal(ctx, f.org.ID.String(), 2025, time.February)
	require.NoError(t, err)
	assert.Equal(t, 80.00, total)

	total, err = f.svc.MonthlyTotal(ctx, f.org.ID.String(), 2025, time.January)
	require.NoError(t, err)
	assert.Equal(t, 0.0, total)
}

func TestMonthlyTotalLastDayInclusive(t *testing.T) {
	f := newFixture(t)

	// Work on 2025-03-31 counts for March; the clock still sits mid-March
	// so move it past the work date first.
	f.clock.Advance(20 * 24 * time.Hour)
	f.create(t, 1, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC))

	total, err := f.svc.MonthlyTotal(context.Background(), f.org.ID.String(), 2025, time.March)
	require.NoError(t, err)
	assert.Equal(t, 80.00, total)
}

func TestListByDateRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.create(t, 1, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	f.create(t, 1, time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC))
	f.create(t, 1, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))

	entries, err := f.svc.ListByDateRange(ctx, f.org.ID.String(),
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Ordered work_date DESC.
	assert.True(t, time.Time(entries[0].WorkDate).After(time.Time(entries[1].WorkDate)))

	_, err = f.svc.ListByDateRange(ctx, f.org.ID.String(),
		time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, domain.ErrInvalidEntry)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entry := f.create(t, 1, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC))
	require.NoError(t, f.svc.Delete(ctx, entry.ID.String()))

	_, err := f.svc.GetByID(ctx, entry.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
