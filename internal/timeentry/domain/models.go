// Package domain contains the billable time entry aggregate.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// TimeEntry records billable work against a ticket. OrgID is
// denormalized from the ticket so monthly aggregation never joins.
//
// BilledHours and BilledAmount are derived at write time and
// HourlyRateSnapshot is frozen at creation: later changes to the
// organization's rate never touch existing entries.
type TimeEntry struct {
	ID                 snowflake.ID   `gorm:"primaryKey" json:"id"`
	TicketID           snowflake.ID   `gorm:"not null;index" json:"ticket_id"`
	OrgID              snowflake.ID   `gorm:"not null;index" json:"org_id"`
	CreatedByID        snowflake.ID   `gorm:"not null" json:"created_by_id"`
	Description        string         `gorm:"type:text;not null" json:"description"`
	WorkDate           datatypes.Date `gorm:"not null;index" json:"work_date"`
	Hours              float64        `gorm:"not null" json:"hours"`
	BilledHours        float64        `gorm:"not null" json:"billed_hours"`
	HourlyRateSnapshot float64        `gorm:"not null" json:"hourly_rate_snapshot"`
	BilledAmount       float64        `gorm:"not null" json:"billed_amount"`
	CreatedAt          time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (TimeEntry) TableName() string { return "time_entries" }
