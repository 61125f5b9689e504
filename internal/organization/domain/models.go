// Package domain contains persistence models for the organization service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Organization represents a tenant. HourlyRate is the current billing
// rate; time entries snapshot it at creation so later edits never
// rewrite history.
type Organization struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	Name       string       `gorm:"type:text;not null" json:"name"`
	Slug       string       `gorm:"type:text;not null;uniqueIndex:ux_organizations_slug" json:"slug"`
	IsActive   bool         `gorm:"not null;default:true" json:"is_active"`
	Email      string       `gorm:"type:text" json:"email"`
	Phone      string       `gorm:"type:text" json:"phone"`
	Address    string       `gorm:"type:text" json:"address"`
	URL        string       `gorm:"type:text" json:"url"`
	Siret      string       `gorm:"type:text" json:"siret"`
	HourlyRate float64      `gorm:"not null;default:80.00" json:"hourly_rate"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Organization) TableName() string { return "organizations" }
