package repository

import (
	"context"
	"errors"

	"github.com/axel-paillaud/ticketsync/internal/ticket/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, ticket domain.Ticket) error {
	return r.db.WithContext(ctx).Create(&ticket).Error
}

func (r *repository) GetByID(ctx context.Context, id snowflake.ID) (*domain.Ticket, error) {
	var ticket domain.Ticket
	err := r.db.WithContext(ctx).
		Preload("Status").
		Preload("Priority").
		First(&ticket, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *repository) ListByOrganization(ctx context.Context, orgID snowflake.ID, includeClosed bool) ([]domain.Ticket, error) {
	q := r.db.WithContext(ctx).
		Preload("Status").
		Preload("Priority").
		Joins("JOIN priorities ON priorities.id = tickets.priority_id").
		Where("tickets.org_id = ?", orgID)
	if !includeClosed {
		q = q.Joins("JOIN statuses ON statuses.id = tickets.status_id").
			Where("statuses.is_closed = ?", false)
	}

	var tickets []domain.Ticket
	err := q.Order("priorities.level DESC, tickets.created_at DESC").
		Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *repository) Update(ctx context.Context, ticket domain.Ticket) error {
	// Omit preloaded associations so a stale Status/Priority struct can
	// never overwrite the reference rows.
	return r.db.WithContext(ctx).
		Omit("Status", "Priority").
		Save(&ticket).Error
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&domain.Ticket{}, "id = ?", id).Error
}

func (r *repository) GetStatusByID(ctx context.Context, id snowflake.ID) (*domain.Status, error) {
	var status domain.Status
	err := r.db.WithContext(ctx).First(&status, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &status, nil
}

func (r *repository) GetStatusBySlug(ctx context.Context, slug string) (*domain.Status, error) {
	var status domain.Status
	err := r.db.WithContext(ctx).First(&status, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &status, nil
}

func (r *repository) ListStatuses(ctx context.Context) ([]domain.Status, error) {
	var statuses []domain.Status
	err := r.db.WithContext(ctx).Order("sort_order ASC").Find(&statuses).Error
	if err != nil {
		return nil, err
	}
	return statuses, nil
}

func (r *repository) GetPriorityByID(ctx context.Context, id snowflake.ID) (*domain.Priority, error) {
	var priority domain.Priority
	err := r.db.WithContext(ctx).First(&priority, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &priority, nil
}

func (r *repository) GetPriorityByName(ctx context.Context, name string) (*domain.Priority, error) {
	var priority domain.Priority
	err := r.db.WithContext(ctx).First(&priority, "name = ?", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &priority, nil
}

func (r *repository) ListPriorities(ctx context.Context) ([]domain.Priority, error) {
	var priorities []domain.Priority
	err := r.db.WithContext(ctx).Order("level DESC").Find(&priorities).Error
	if err != nil {
		return nil, err
	}
	return priorities, nil
}

func (r *repository) CreateComment(ctx context.Context, comment domain.Comment) error {
	return r.db.WithContext(ctx).Create(&comment).Error
}

func (r *repository) GetCommentByID(ctx context.Context, id snowflake.ID) (*domain.Comment, error) {
	var comment domain.Comment
	err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

func (r *repository) ListCommentsByTicket(ctx context.Context, ticketID snowflake.ID, cursor *domain.CommentCursor, limit int) ([]domain.Comment, error) {
	stmt := r.db.WithContext(ctx).Where("ticket_id = ?", ticketID)
	if cursor != nil {
		stmt = stmt.Where("(created_at > ?) OR (created_at = ? AND id > ?)",
			cursor.CreatedAt,
			cursor.CreatedAt,
			cursor.ID,
		)
	}
	stmt = stmt.Order("created_at ASC, id ASC")
	if limit > 0 {
		// One extra row so the caller can tell whether more pages exist.
		stmt = stmt.Limit(limit + 1)
	}

	var comments []domain.Comment
	if err := stmt.Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *repository) UpdateComment(ctx context.Context, comment domain.Comment) error {
	return r.db.WithContext(ctx).Save(&comment).Error
}

func (r *repository) DeleteComment(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&domain.Comment{}, "id = ?", id).Error
}

func (r *repository) CreateAttachment(ctx context.Context, attachment domain.Attachment) error {
	return r.db.WithContext(ctx).Create(&attachment).Error
}

func (r *repository) GetAttachmentByID(ctx context.Context, id snowflake.ID) (*domain.Attachment, error) {
	var attachment domain.Attachment
	err := r.db.WithContext(ctx).First(&attachment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &attachment, nil
}

func (r *repository) ListAttachmentsByTicket(ctx context.Context, ticketID snowflake.ID) ([]domain.Attachment, error) {
	var attachments []domain.Attachment
	err := r.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC").
		Find(&attachments).Error
	if err != nil {
		return nil, err
	}
	return attachments, nil
}

func (r *repository) DeleteAttachment(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&domain.Attachment{}, "id = ?", id).Error
}
