package domain

import (
	"context"
	"errors"
)

type Service interface {
	Create(ctx context.Context, req CreateUserRequest) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	ListByOrganization(ctx context.Context, orgID string) ([]User, error)
	FindAdmins(ctx context.Context) ([]User, error)
	UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) (*User, error)
	Delete(ctx context.Context, id string) error

	AcceptInvitation(ctx context.Context, token string, password string) (*User, error)
	ResendInvitation(ctx context.Context, userID string) error
}

type CreateUserRequest struct {
	Email     string
	FirstName string
	LastName  string
	Role      string
	OrgID     string
}

type UpdateProfileRequest struct {
	FirstName             *string
	LastName              *string
	AlertThresholdEnabled *bool
	MonthlyAlertThreshold *float64
}

var (
	ErrInvalidEmail          = errors.New("invalid_email")
	ErrInvalidRole           = errors.New("invalid_role")
	ErrInvalidUser           = errors.New("invalid_user")
	ErrInvalidThreshold      = errors.New("invalid_threshold")
	ErrInvalidPassword       = errors.New("invalid_password")
	ErrNotFound              = errors.New("user_not_found")
	ErrDuplicateEmail        = errors.New("duplicate_email")
	ErrInvitationNotFound    = errors.New("invitation_not_found")
	ErrInvitationExpired     = errors.New("invitation_expired")
	ErrInvitationAccepted    = errors.New("invitation_already_accepted")
)

// InvitationMailer delivers onboarding invitations. The notification
// package provides the SMTP-backed implementation.
type InvitationMailer interface {
	SendUserInvitation(ctx context.Context, user User, invitationURL string) error
}
