package repository

import (
	"context"
	"errors"
	"time"

	"github.com/axel-paillaud/ticketsync/internal/timeentry/domain"
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

func (r *repository) Create(ctx context.Context, entry domain.TimeEntry) error {
	return r.db.WithContext(ctx).Create(&entry).Error
}

func (r *repository) GetByID(ctx context.Context, id snowflake.ID) (*domain.TimeEntry, error) {
	var entry domain.TimeEntry
	err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *repository) Update(ctx context.Context, entry domain.TimeEntry) error {
	return r.db.WithContext(ctx).Save(&entry).Error
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&domain.TimeEntry{}, "id = ?", id).Error
}

func (r *repository) ListByTicket(ctx context.Context, ticketID snowflake.ID) ([]domain.TimeEntry, error) {
	var entries []domain.TimeEntry
	err := r.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Order("work_date DESC, created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) ListByOrganization(ctx context.Context, orgID snowflake.ID) ([]domain.TimeEntry, error) {
	var entries []domain.TimeEntry
	err := r.db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("work_date DESC, created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) ListByDateRange(ctx context.Context, orgID *snowflake.ID, start, end time.Time) ([]domain.TimeEntry, error) {
	q := r.db.WithContext(ctx).
		Where("work_date >= ? AND work_date <= ?", start, end)
	if orgID != nil {
		q = q.Where("org_id = ?", *orgID)
	}

	var entries []domain.TimeEntry
	err := q.Order("work_date DESC, created_at DESC").Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) MonthlyTotal(ctx context.Context, orgID snowflake.ID, year int, month time.Month) (float64, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	var total float64
	err := r.db.WithContext(ctx).
		Model(&domain.TimeEntry{}).
		Select("COALESCE(SUM(billed_amount), 0)").
		Where("org_id = ? AND work_date >= ? AND work_date <= ?", orgID, first, last).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
