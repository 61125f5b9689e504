package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, user User) error
	GetByID(ctx context.Context, id snowflake.ID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ListByOrganization(ctx context.Context, orgID snowflake.ID) ([]User, error)
	ListByRole(ctx context.Context, role string) ([]User, error)
	AlertSubscribers(ctx context.Context, orgID snowflake.ID) ([]User, error)
	Update(ctx context.Context, user User) error
	Delete(ctx context.Context, id snowflake.ID) error

	CreateInvitation(ctx context.Context, invite UserInvitation) error
	GetInvitationByToken(ctx context.Context, token string) (*UserInvitation, error)
	GetPendingInvitationByUser(ctx context.Context, userID snowflake.ID) (*UserInvitation, error)
	UpdateInvitation(ctx context.Context, invite UserInvitation) error
}
