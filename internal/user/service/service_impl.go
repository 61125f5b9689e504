package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/axel-paillaud/ticketsync/internal/billing"
	"github.com/axel-paillaud/ticketsync/internal/clock"
	"github.com/axel-paillaud/ticketsync/internal/config"
	"github.com/axel-paillaud/ticketsync/internal/password"
	"github.com/axel-paillaud/ticketsync/internal/user/domain"
	"github.com/axel-paillaud/ticketsync/pkg/db"
	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const invitationTTL = 7 * 24 * time.Hour

type service struct {
	db     *gorm.DB
	repo   domain.Repository
	genID  *snowflake.Node
	mailer domain.InvitationMailer
	clock  clock.Clock
	log    *zap.Logger
	cfg    config.Config
}

type ServiceParam struct {
	fx.In

	DB     *gorm.DB
	Repo   domain.Repository
	GenID  *snowflake.Node
	Mailer domain.InvitationMailer
	Clock  clock.Clock
	Log    *zap.Logger
	Cfg    config.Config
}

func NewService(p ServiceParam) domain.Service {
	return &service{
		db:     p.DB,
		repo:   p.Repo,
		genID:  p.GenID,
		mailer: p.Mailer,
		clock:  p.Clock,
		log:    p.Log.Named("user.service"),
		cfg:    p.Cfg,
	}
}

func (s *service) Create(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidEmail
	}

	role := req.Role
	if role == "" {
		role = domain.RoleUser
	}
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return nil, domain.ErrInvalidRole
	}

	orgID, err := snowflake.ParseString(strings.TrimSpace(req.OrgID))
	if err != nil {
		return nil, domain.ErrInvalidUser
	}

	now := s.clock.Now()
	user := domain.User{
		ID:        s.genID.Generate(),
		Email:     email,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Role:      role,
		OrgID:     orgID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	invite := domain.UserInvitation{
		ID:        s.genID.Generate(),
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: now.Add(invitationTTL),
		CreatedAt: now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, user); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrDuplicateEmail
			}
			return err
		}
		return repo.CreateInvitation(ctx, invite)
	})
	if err != nil {
		return nil, err
	}

	if err := s.mailer.SendUserInvitation(ctx, user, s.invitationURL(invite.Token)); err != nil {
		s.log.Warn("failed to send invitation email",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
	}

	return &user, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*domain.User, error) {
	userID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (s *service) ListByOrganization(ctx context.Context, orgID string) ([]domain.User, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(orgID))
	if err != nil {
		return nil, domain.ErrInvalidUser
	}
	return s.repo.ListByOrganization(ctx, id)
}

func (s *service) FindAdmins(ctx context.Context) ([]domain.User, error) {
	return s.repo.ListByRole(ctx, domain.RoleAdmin)
}

func (s *service) UpdateProfile(ctx context.Context, id string, req domain.UpdateProfileRequest) (*domain.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.AlertThresholdEnabled != nil {
		user.AlertThresholdEnabled = *req.AlertThresholdEnabled
	}
	if req.MonthlyAlertThreshold != nil {
		threshold := billing.Round2(*req.MonthlyAlertThreshold)
		if threshold <= 0 {
			return nil, domain.ErrInvalidThreshold
		}
		user.MonthlyAlertThreshold = &threshold
	}
	if user.AlertThresholdEnabled && user.MonthlyAlertThreshold == nil {
		return nil, domain.ErrInvalidThreshold
	}
	user.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, *user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, user.ID)
}

func (s *service) AcceptInvitation(ctx context.Context, token string, rawPassword string) (*domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrInvitationNotFound
	}
	if len(rawPassword) < 8 {
		return nil, domain.ErrInvalidPassword
	}

	invite, err := s.repo.GetInvitationByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if invite == nil {
		return nil, domain.ErrInvitationNotFound
	}
	if invite.AcceptedAt != nil {
		return nil, domain.ErrInvitationAccepted
	}

	now := s.clock.Now()
	if invite.IsExpired(now) {
		return nil, domain.ErrInvitationExpired
	}

	user, err := s.repo.GetByID(ctx, invite.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}

	hash, err := password.Hash(rawPassword)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = hash
	user.IsVerified = true
	user.UpdatedAt = now
	invite.AcceptedAt = &now

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Update(ctx, *user); err != nil {
			return err
		}
		return repo.UpdateInvitation(ctx, *invite)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (s *service) ResendInvitation(ctx context.Context, userID string) error {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	invite, err := s.repo.GetPendingInvitationByUser(ctx, user.ID)
	if err != nil {
		return err
	}
	if invite == nil {
		invite = &domain.UserInvitation{
			ID:        s.genID.Generate(),
			UserID:    user.ID,
			Token:     uuid.NewString(),
			ExpiresAt: now.Add(invitationTTL),
			CreatedAt: now,
		}
		if err := s.repo.CreateInvitation(ctx, *invite); err != nil {
			return err
		}
	} else {
		invite.Token = uuid.NewString()
		invite.ExpiresAt = now.Add(invitationTTL)
		if err := s.repo.UpdateInvitation(ctx, *invite); err != nil {
			return err
		}
	}

	return s.mailer.SendUserInvitation(ctx, *user, s.invitationURL(invite.Token))
}

func (s *service) invitationURL(token string) string {
	return fmt.Sprintf("%s/invitation/%s", s.cfg.BaseURL, token)
}

func parseID(raw string) (snowflake.ID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, domain.ErrInvalidUser
	}
	id, err := snowflake.ParseString(raw)
	if err != nil {
		return 0, domain.ErrInvalidUser
	}
	return id, nil
}
