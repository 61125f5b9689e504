package service

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/axel-paillaud/ticketsync/internal/authz"
	"github.com/axel-paillaud/ticketsync/internal/clock"
	"github.com/axel-paillaud/ticketsync/internal/ticket/domain"
	userdomain "github.com/axel-paillaud/ticketsync/internal/user/domain"
	"github.com/axel-paillaud/ticketsync/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	defaultStatusSlug   = "open"
	defaultPriorityName = "normal"

	defaultCommentPageSize = 50
	maxCommentPageSize     = 250
)

type service struct {
	repo     domain.Repository
	genID    *snowflake.Node
	notifier domain.Notifier
	clock    clock.Clock
	log      *zap.Logger
}

type ServiceParam struct {
	fx.In

	Repo     domain.Repository
	GenID    *snowflake.Node
	Notifier domain.Notifier
	Clock    clock.Clock
	Log      *zap.Logger
}

func NewService(p ServiceParam) domain.Service {
	return &service{
		repo:     p.Repo,
		genID:    p.GenID,
		notifier: p.Notifier,
		clock:    p.Clock,
		log:      p.Log.Named("ticket.service"),
	}
}

func (s *service) Create(ctx context.Context, actor userdomain.User, req domain.CreateTicketRequest) (*domain.Ticket, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrInvalidTitle
	}

	orgID, err := snowflake.ParseString(strings.TrimSpace(req.OrgID))
	if err != nil {
		return nil, domain.ErrInvalidTicket
	}

	status, err := s.repo.GetStatusBySlug(ctx, defaultStatusSlug)
	if err != nil {
		return nil, err
	}
	if status == nil {
		return nil, domain.ErrStatusNotFound
	}

	priority, err := s.resolvePriority(ctx, req.PriorityID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	ticket := domain.Ticket{
		ID:          s.genID.Generate(),
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		OrgID:       orgID,
		CreatedByID: actor.ID,
		StatusID:    status.ID,
		PriorityID:  priority.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if req.AssigneeID != "" {
		assigneeID, err := snowflake.ParseString(req.AssigneeID)
		if err != nil {
			return nil, domain.ErrInvalidTicket
		}
		ticket.AssigneeID = &assigneeID
	}

	if err := s.repo.Create(ctx, ticket); err != nil {
		return nil, err
	}

	ticket.Status = status
	ticket.Priority = priority
	s.notifier.TicketCreated(ctx, ticket, actor)

	return &ticket, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	return s.getTicket(ctx, id)
}

func (s *service) ListByOrganization(ctx context.Context, orgID string, includeClosed bool) ([]domain.Ticket, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(orgID))
	if err != nil {
		return nil, domain.ErrInvalidTicket
	}
	return s.repo.ListByOrganization(ctx, id, includeClosed)
}

func (s *service) Update(ctx context.Context, actor userdomain.User, id string, req domain.UpdateTicketRequest) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, id)
	if err != nil {
		return nil, err
	}

	if (req.StatusSlug != nil || req.OrgID != nil) && !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, domain.ErrInvalidTitle
		}
		ticket.Title = title
	}
	if req.Description != nil {
		ticket.Description = strings.TrimSpace(*req.Description)
	}
	if req.PriorityID != nil {
		priorityID, err := snowflake.ParseString(*req.PriorityID)
		if err != nil {
			return nil, domain.ErrInvalidTicket
		}
		priority, err := s.repo.GetPriorityByID(ctx, priorityID)
		if err != nil {
			return nil, err
		}
		if priority == nil {
			return nil, domain.ErrPriorityNotFound
		}
		ticket.PriorityID = priority.ID
		ticket.Priority = priority
	}
	if req.AssigneeID != nil {
		if *req.AssigneeID == "" {
			ticket.AssigneeID = nil
		} else {
			assigneeID, err := snowflake.ParseString(*req.AssigneeID)
			if err != nil {
				return nil, domain.ErrInvalidTicket
			}
			ticket.AssigneeID = &assigneeID
		}
	}
	if req.OrgID != nil {
		orgID, err := snowflake.ParseString(*req.OrgID)
		if err != nil {
			return nil, domain.ErrInvalidTicket
		}
		ticket.OrgID = orgID
	}

	var oldStatus, newStatus *domain.Status
	if req.StatusSlug != nil {
		oldStatus = ticket.Status
		newStatus, err = s.repo.GetStatusBySlug(ctx, *req.StatusSlug)
		if err != nil {
			return nil, err
		}
		if newStatus == nil {
			return nil, domain.ErrStatusNotFound
		}
		ticket.StatusID = newStatus.ID
		ticket.Status = newStatus
	}

	ticket.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, *ticket); err != nil {
		return nil, err
	}

	if newStatus != nil && oldStatus != nil && oldStatus.ID != newStatus.ID {
		s.notifier.StatusChanged(ctx, *ticket, *oldStatus, *newStatus, actor)
	}

	return ticket, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	ticket, err := s.getTicket(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, ticket.ID); err != nil {
		return err
	}
	s.log.Info("ticket deleted",
		zap.String("ticket_id", ticket.ID.String()),
		zap.String("org_id", ticket.OrgID.String()),
	)
	return nil
}

func (s *service) Assign(ctx context.Context, id string, assigneeID string) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, id)
	if err != nil {
		return nil, err
	}

	if assigneeID == "" {
		ticket.AssigneeID = nil
	} else {
		parsed, err := snowflake.ParseString(assigneeID)
		if err != nil {
			return nil, domain.ErrInvalidTicket
		}
		ticket.AssigneeID = &parsed
	}
	ticket.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, *ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *service) ChangeStatus(ctx context.Context, actor userdomain.User, id string, statusSlug string) (*domain.Ticket, error) {
	slug := statusSlug
	return s.Update(ctx, actor, id, domain.UpdateTicketRequest{StatusSlug: &slug})
}

func (s *service) AddComment(ctx context.Context, actor userdomain.User, ticketID string, body string) (*domain.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, domain.ErrInvalidComment
	}

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	comment := domain.Comment{
		ID:        s.genID.Generate(),
		TicketID:  ticket.ID,
		AuthorID:  actor.ID,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	s.notifier.CommentAdded(ctx, comment, *ticket, actor)

	return &comment, nil
}

func (s *service) UpdateComment(ctx context.Context, actor userdomain.User, commentID string, body string) (*domain.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, domain.ErrInvalidComment
	}

	comment, err := s.getComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if !authz.CanEditComment(actor, *comment) {
		return nil, domain.ErrForbidden
	}

	comment.Body = body
	comment.UpdatedAt = s.clock.Now()
	if err := s.repo.UpdateComment(ctx, *comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *service) DeleteComment(ctx context.Context, actor userdomain.User, commentID string) error {
	comment, err := s.getComment(ctx, commentID)
	if err != nil {
		return err
	}
	if !authz.CanDeleteComment(actor, *comment) {
		return domain.ErrForbidden
	}
	return s.repo.DeleteComment(ctx, comment.ID)
}

func (s *service) ListComments(ctx context.Context, req domain.ListCommentsRequest) (domain.ListCommentsResponse, error) {
	ticket, err := s.getTicket(ctx, req.TicketID)
	if err != nil {
		return domain.ListCommentsResponse{}, err
	}

	var cursor *domain.CommentCursor
	if token := strings.TrimSpace(req.PageToken); token != "" {
		decoded, err := pagination.DecodeCursor(token)
		if err != nil {
			return domain.ListCommentsResponse{}, domain.ErrInvalidPageToken
		}
		createdAt, err := time.Parse(time.RFC3339Nano, decoded.CreatedAt)
		if err != nil {
			return domain.ListCommentsResponse{}, domain.ErrInvalidPageToken
		}
		id, err := snowflake.ParseString(strings.TrimSpace(decoded.ID))
		if err != nil || id == 0 {
			return domain.ListCommentsResponse{}, domain.ErrInvalidPageToken
		}
		cursor = &domain.CommentCursor{ID: id, CreatedAt: createdAt}
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = defaultCommentPageSize
	}
	if pageSize > maxCommentPageSize {
		pageSize = maxCommentPageSize
	}

	comments, err := s.repo.ListCommentsByTicket(ctx, ticket.ID, cursor, pageSize)
	if err != nil {
		return domain.ListCommentsResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(comments, pageSize, func(comment domain.Comment) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        comment.ID.String(),
			CreatedAt: comment.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo.HasMore && len(comments) > pageSize {
		comments = comments[:pageSize]
	}

	return domain.ListCommentsResponse{Comments: comments, PageInfo: pageInfo}, nil
}

func (s *service) AddAttachment(ctx context.Context, actor userdomain.User, req domain.CreateAttachmentRequest) (*domain.Attachment, error) {
	filename := strings.TrimSpace(req.Filename)
	if filename == "" || req.SizeBytes < 0 {
		return nil, domain.ErrInvalidAttachment
	}
	if req.TicketID == "" && req.CommentID == "" {
		return nil, domain.ErrInvalidAttachment
	}

	attachment := domain.Attachment{
		ID:         s.genID.Generate(),
		UploaderID: actor.ID,
		Filename:   filename,
		StoredName: uuid.NewString() + filepath.Ext(filename),
		MimeType:   req.MimeType,
		SizeBytes:  req.SizeBytes,
		CreatedAt:  s.clock.Now(),
	}

	if req.TicketID != "" {
		ticket, err := s.getTicket(ctx, req.TicketID)
		if err != nil {
			return nil, err
		}
		attachment.TicketID = &ticket.ID
	}
	if req.CommentID != "" {
		comment, err := s.getComment(ctx, req.CommentID)
		if err != nil {
			return nil, err
		}
		attachment.CommentID = &comment.ID
	}

	if err := s.repo.CreateAttachment(ctx, attachment); err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (s *service) ListAttachments(ctx context.Context, ticketID string) ([]domain.Attachment, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListAttachmentsByTicket(ctx, ticket.ID)
}

func (s *service) DeleteAttachment(ctx context.Context, actor userdomain.User, attachmentID string) error {
	id, err := snowflake.ParseString(strings.TrimSpace(attachmentID))
	if err != nil {
		return domain.ErrInvalidAttachment
	}

	attachment, err := s.repo.GetAttachmentByID(ctx, id)
	if err != nil {
		return err
	}
	if attachment == nil {
		return domain.ErrAttachmentNotFound
	}
	if attachment.UploaderID != actor.ID && !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	return s.repo.DeleteAttachment(ctx, attachment.ID)
}

func (s *service) ListStatuses(ctx context.Context) ([]domain.Status, error) {
	return s.repo.ListStatuses(ctx)
}

func (s *service) ListPriorities(ctx context.Context) ([]domain.Priority, error) {
	return s.repo.ListPriorities(ctx)
}

func (s *service) resolvePriority(ctx context.Context, raw string) (*domain.Priority, error) {
	if raw == "" {
		priority, err := s.repo.GetPriorityByName(ctx, defaultPriorityName)
		if err != nil {
			return nil, err
		}
		if priority == nil {
			return nil, domain.ErrPriorityNotFound
		}
		return priority, nil
	}

	id, err := snowflake.ParseString(raw)
	if err != nil {
		return nil, domain.ErrInvalidTicket
	}
	priority, err := s.repo.GetPriorityByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if priority == nil {
		return nil, domain.ErrPriorityNotFound
	}
	return priority, nil
}

func (s *service) getTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	ticketID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidTicket
	}
	ticket, err := s.repo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, domain.ErrNotFound
	}
	return ticket, nil
}

func (s *service) getComment(ctx context.Context, id string) (*domain.Comment, error) {
	commentID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidComment
	}
	comment, err := s.repo.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, domain.ErrCommentNotFound
	}
	return comment, nil
}
