package service

import (
	"context"
	"strings"
	"time"

	"github.com/axel-paillaud/ticketsync/internal/billing"
	"github.com/axel-paillaud/ticketsync/internal/organization/domain"
	"github.com/axel-paillaud/ticketsync/pkg/db"
	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const defaultHourlyRate = 80.00

type service struct {
	db    *gorm.DB
	repo  domain.Repository
	genID *snowflake.Node
}

func NewService(conn *gorm.DB, repo domain.Repository, genID *snowflake.Node) domain.Service {
	return &service{
		db:    conn,
		repo:  repo,
		genID: genID,
	}
}

func (s *service) Create(ctx context.Context, req domain.CreateOrganizationRequest) (*domain.Organization, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	rate := defaultHourlyRate
	if req.HourlyRate != nil {
		if *req.HourlyRate < 0 {
			return nil, domain.ErrInvalidHourlyRate
		}
		rate = billing.Round2(*req.HourlyRate)
	}

	now := time.Now().UTC()
	org := domain.Organization{
		ID:         s.genID.Generate(),
		Name:       name,
		Slug:       slug.Make(name),
		IsActive:   true,
		Email:      strings.TrimSpace(req.Email),
		Phone:      strings.TrimSpace(req.Phone),
		Address:    strings.TrimSpace(req.Address),
		URL:        strings.TrimSpace(req.URL),
		Siret:      strings.TrimSpace(req.Siret),
		HourlyRate: rate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, org); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateSlug
		}
		return nil, err
	}

	return &org, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	orgID, err := s.ResolveID(ctx, id)
	if err != nil {
		return nil, err
	}

	org, err := s.repo.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	return org, nil
}

func (s *service) GetBySlug(ctx context.Context, rawSlug string) (*domain.Organization, error) {
	rawSlug = strings.TrimSpace(rawSlug)
	if rawSlug == "" {
		return nil, domain.ErrInvalidOrganization
	}

	org, err := s.repo.GetBySlug(ctx, rawSlug)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	return org, nil
}

func (s *service) List(ctx context.Context) ([]domain.Organization, error) {
	return s.repo.List(ctx)
}

func (s *service) Update(ctx context.Context, id string, req domain.UpdateOrganizationRequest) (*domain.Organization, error) {
	org, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		org.Name = name
	}
	if req.Email != nil {
		org.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		org.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		org.Address = strings.TrimSpace(*req.Address)
	}
	if req.URL != nil {
		org.URL = strings.TrimSpace(*req.URL)
	}
	if req.Siret != nil {
		org.Siret = strings.TrimSpace(*req.Siret)
	}
	if req.HourlyRate != nil {
		if *req.HourlyRate < 0 {
			return nil, domain.ErrInvalidHourlyRate
		}
		// Only the current rate changes. Existing time entries keep the
		// snapshot captured when they were logged.
		org.HourlyRate = billing.Round2(*req.HourlyRate)
	}
	if req.IsActive != nil {
		org.IsActive = *req.IsActive
	}
	org.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, *org); err != nil {
		return nil, err
	}
	return org, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	org, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, org.ID)
}

func (s *service) ResolveID(ctx context.Context, raw string) (snowflake.ID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, domain.ErrInvalidOrganization
	}
	orgID, err := snowflake.ParseString(raw)
	if err != nil {
		return 0, domain.ErrInvalidOrganization
	}
	return orgID, nil
}
