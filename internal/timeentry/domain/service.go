package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateTimeEntryRequest) (*TimeEntry, error)
	GetByID(ctx context.Context, id string) (*TimeEntry, error)
	Update(ctx context.Context, id string, req UpdateTimeEntryRequest) (*TimeEntry, error)
	Delete(ctx context.Context, id string) error

	ListByTicket(ctx context.Context, ticketID string) ([]TimeEntry, error)
	ListByOrganization(ctx context.Context, orgID string) ([]TimeEntry, error)
	ListByDateRange(ctx context.Context, orgID string, start, end time.Time) ([]TimeEntry, error)
	MonthlyTotal(ctx context.Context, orgID string, year int, month time.Month) (float64, error)
}

type CreateTimeEntryRequest struct {
	TicketID    string
	CreatedByID string
	Description string
	Hours       float64
	WorkDate    time.Time
}

type UpdateTimeEntryRequest struct {
	Description *string
	Hours       *float64
	WorkDate    *time.Time
}

var (
	ErrInvalidDescription = errors.New("invalid_description")
	ErrInvalidHours       = errors.New("invalid_hours")
	ErrInvalidWorkDate    = errors.New("invalid_work_date")
	ErrInvalidEntry       = errors.New("invalid_time_entry")
	ErrNotFound           = errors.New("time_entry_not_found")
	ErrTicketNotFound     = errors.New("time_entry_ticket_not_found")
	ErrOrgNotFound        = errors.New("time_entry_organization_not_found")
)

// Operation tells the threshold evaluator how an entry reached the
// database.
type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
)

// ThresholdEvaluator runs after a time entry commit. PriorBilledAmount
// is the entry's billed amount before an update, 0 on create.
// Implementations never fail the caller; delivery problems are logged
// and swallowed.
type ThresholdEvaluator interface {
	EntryCommitted(ctx context.Context, entry TimeEntry, op Operation, priorBilledAmount float64)
}
