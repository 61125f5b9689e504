package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// CommentCursor marks the last comment of the previous page.
type CommentCursor struct {
	ID        snowflake.ID
	CreatedAt time.Time
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, ticket Ticket) error
	GetByID(ctx context.Context, id snowflake.ID) (*Ticket, error)
	ListByOrganization(ctx context.Context, orgID snowflake.ID, includeClosed bool) ([]Ticket, error)
	Update(ctx context.Context, ticket Ticket) error
	Delete(ctx context.Context, id snowflake.ID) error

	GetStatusByID(ctx context.Context, id snowflake.ID) (*Status, error)
	GetStatusBySlug(ctx context.Context, slug string) (*Status, error)
	ListStatuses(ctx context.Context) ([]Status, error)

	GetPriorityByID(ctx context.Context, id snowflake.ID) (*Priority, error)
	GetPriorityByName(ctx context.Context, name string) (*Priority, error)
	ListPriorities(ctx context.Context) ([]Priority, error)

	CreateComment(ctx context.Context, comment Comment) error
	GetCommentByID(ctx context.Context, id snowflake.ID) (*Comment, error)
	ListCommentsByTicket(ctx context.Context, ticketID snowflake.ID, cursor *CommentCursor, limit int) ([]Comment, error)
	UpdateComment(ctx context.Context, comment Comment) error
	DeleteComment(ctx context.Context, id snowflake.ID) error

	CreateAttachment(ctx context.Context, attachment Attachment) error
	GetAttachmentByID(ctx context.Context, id snowflake.ID) (*Attachment, error)
	ListAttachmentsByTicket(ctx context.Context, ticketID snowflake.ID) ([]Attachment, error)
	DeleteAttachment(ctx context.Context, id snowflake.ID) error
}
