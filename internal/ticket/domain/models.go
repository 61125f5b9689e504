// Package domain contains persistence models for tickets and their
// satellite records (comments, attachments, statuses, priorities).
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Status is a seeded reference row. IsClosed marks terminal states so
// listings can exclude resolved tickets.
type Status struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Slug      string       `gorm:"type:text;not null;uniqueIndex:ux_statuses_slug" json:"slug"`
	Color     string       `gorm:"type:text" json:"color"`
	IsClosed  bool         `gorm:"not null;default:false" json:"is_closed"`
	SortOrder int          `gorm:"not null;default:0" json:"sort_order"`
}

func (Status) TableName() string { return "statuses" }

// Priority is a seeded reference row. Higher Level sorts first in
// ticket listings.
type Priority struct {
	ID    snowflake.ID `gorm:"primaryKey" json:"id"`
	Name  string       `gorm:"type:text;not null;uniqueIndex:ux_priorities_name" json:"name"`
	Level int          `gorm:"not null;default:0" json:"level"`
	Color string       `gorm:"type:text" json:"color"`
	Label string       `gorm:"type:text" json:"label"`
}

func (Priority) TableName() string { return "priorities" }

type Ticket struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	Title       string        `gorm:"type:text;not null" json:"title"`
	Description string        `gorm:"type:text" json:"description"`
	OrgID       snowflake.ID  `gorm:"not null;index" json:"org_id"`
	CreatedByID snowflake.ID  `gorm:"not null" json:"created_by_id"`
	AssigneeID  *snowflake.ID `json:"assignee_id"`
	StatusID    snowflake.ID  `gorm:"not null;index" json:"status_id"`
	PriorityID  snowflake.ID  `gorm:"not null" json:"priority_id"`
	CreatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Status   *Status   `gorm:"foreignKey:StatusID" json:"status,omitempty"`
	Priority *Priority `gorm:"foreignKey:PriorityID" json:"priority,omitempty"`
}

func (Ticket) TableName() string { return "tickets" }

type Comment struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	TicketID  snowflake.ID `gorm:"not null;index" json:"ticket_id"`
	AuthorID  snowflake.ID `gorm:"not null" json:"author_id"`
	Body      string       `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Comment) TableName() string { return "comments" }

// Attachment records upload metadata only. Binary storage is handled
// outside this service.
type Attachment struct {
	ID         snowflake.ID  `gorm:"primaryKey" json:"id"`
	TicketID   *snowflake.ID `gorm:"index" json:"ticket_id"`
	CommentID  *snowflake.ID `gorm:"index" json:"comment_id"`
	UploaderID snowflake.ID  `gorm:"not null" json:"uploader_id"`
	Filename   string        `gorm:"type:text;not null" json:"filename"`
	StoredName string        `gorm:"type:text;not null" json:"stored_name"`
	MimeType   string        `gorm:"type:text" json:"mime_type"`
	SizeBytes  int64         `gorm:"not null;default:0" json:"size_bytes"`
	CreatedAt  time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Attachment) TableName() string { return "attachments" }
