package domain

import (
	"context"
	"errors"

	userdomain "github.com/axel-paillaud/ticketsync/internal/user/domain"
	"github.com/axel-paillaud/ticketsync/pkg/db/pagination"
)

type Service interface {
	Create(ctx context.Context, actor userdomain.User, req CreateTicketRequest) (*Ticket, error)
	GetByID(ctx context.Context, id string) (*Ticket, error)
	ListByOrganization(ctx context.Context, orgID string, includeClosed bool) ([]Ticket, error)
	Update(ctx context.Context, actor userdomain.User, id string, req UpdateTicketRequest) (*Ticket, error)
	Delete(ctx context.Context, id string) error
	Assign(ctx context.Context, id string, assigneeID string) (*Ticket, error)
	ChangeStatus(ctx context.Context, actor userdomain.User, id string, statusSlug string) (*Ticket, error)

	AddComment(ctx context.Context, actor userdomain.User, ticketID string, body string) (*Comment, error)
	UpdateComment(ctx context.Context, actor userdomain.User, commentID string, body string) (*Comment, error)
	DeleteComment(ctx context.Context, actor userdomain.User, commentID string) error
	ListComments(ctx context.Context, req ListCommentsRequest) (ListCommentsResponse, error)

	AddAttachment(ctx context.Context, actor userdomain.User, req CreateAttachmentRequest) (*Attachment, error)
	ListAttachments(ctx context.Context, ticketID string) ([]Attachment, error)
	DeleteAttachment(ctx context.Context, actor userdomain.User, attachmentID string) error

	ListStatuses(ctx context.Context) ([]Status, error)
	ListPriorities(ctx context.Context) ([]Priority, error)
}

type CreateTicketRequest struct {
	Title       string
	Description string
	OrgID       string
	PriorityID  string
	AssigneeID  string
}

// UpdateTicketRequest patches only the fields that are set. StatusSlug
// and OrgID are admin-only.
type UpdateTicketRequest struct {
	Title       *string
	Description *string
	PriorityID  *string
	AssigneeID  *string
	StatusSlug  *string
	OrgID       *string
}

type ListCommentsRequest struct {
	TicketID  string
	PageToken string
	PageSize  int
}

type ListCommentsResponse struct {
	Comments []Comment
	PageInfo *pagination.PageInfo
}

type CreateAttachmentRequest struct {
	TicketID  string
	CommentID string
	Filename  string
	MimeType  string
	SizeBytes int64
}

var (
	ErrInvalidTitle       = errors.New("invalid_title")
	ErrInvalidTicket      = errors.New("invalid_ticket")
	ErrInvalidComment     = errors.New("invalid_comment")
	ErrInvalidAttachment  = errors.New("invalid_attachment")
	ErrNotFound           = errors.New("ticket_not_found")
	ErrCommentNotFound    = errors.New("comment_not_found")
	ErrAttachmentNotFound = errors.New("attachment_not_found")
	ErrStatusNotFound     = errors.New("status_not_found")
	ErrPriorityNotFound   = errors.New("priority_not_found")
	ErrInvalidPageToken   = errors.New("invalid_page_token")
	ErrForbidden          = errors.New("forbidden")
)

// Notifier fans ticket events out to interested recipients after the
// surrounding transaction committed. Implementations log and swallow
// delivery failures; callers never see them.
type Notifier interface {
	TicketCreated(ctx context.Context, ticket Ticket, actor userdomain.User)
	CommentAdded(ctx context.Context, comment Comment, ticket Ticket, actor userdomain.User)
	StatusChanged(ctx context.Context, ticket Ticket, oldStatus, newStatus Status, actor userdomain.User)
}
