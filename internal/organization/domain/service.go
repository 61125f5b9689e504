package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, req CreateOrganizationRequest) (*Organization, error)
	GetByID(ctx context.Context, id string) (*Organization, error)
	GetBySlug(ctx context.Context, slug string) (*Organization, error)
	List(ctx context.Context) ([]Organization, error)
	Update(ctx context.Context, id string, req UpdateOrganizationRequest) (*Organization, error)
	Delete(ctx context.Context, id string) error
	ResolveID(ctx context.Context, raw string) (snowflake.ID, error)
}

type CreateOrganizationRequest struct {
	Name       string
	Email      string
	Phone      string
	Address    string
	URL        string
	Siret      string
	HourlyRate *float64
}

type UpdateOrganizationRequest struct {
	Name       *string
	Email      *string
	Phone      *string
	Address    *string
	URL        *string
	Siret      *string
	HourlyRate *float64
	IsActive   *bool
}

var (
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidHourlyRate   = errors.New("invalid_hourly_rate")
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrNotFound            = errors.New("organization_not_found")
	ErrDuplicateSlug       = errors.New("duplicate_slug")
)
