package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, entry TimeEntry) error
	GetByID(ctx context.Context, id snowflake.ID) (*TimeEntry, error)
	Update(ctx context.Context, entry TimeEntry) error
	Delete(ctx context.Context, id snowflake.ID) error

	ListByTicket(ctx context.Context, ticketID snowflake.ID) ([]TimeEntry, error)
	ListByOrganization(ctx context.Context, orgID snowflake.ID) ([]TimeEntry, error)
	ListByDateRange(ctx context.Context, orgID *snowflake.ID, start, end time.Time) ([]TimeEntry, error)

	// MonthlyTotal sums billed_amount over entries whose work date falls
	// inside the given calendar month, first and last day inclusive.
	// Returns 0 when the month is empty.
	MonthlyTotal(ctx context.Context, orgID snowflake.ID, year int, month time.Month) (float64, error)
}
