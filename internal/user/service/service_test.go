package service

import (
	"context"
	"testing"
	"time"

	"github.com/axel-paillaud/ticketsync/internal/clock"
	"github.com/axel-paillaud/ticketsync/internal/config"
	"github.com/axel-paillaud/ticketsync/internal/user/domain"
	"github.com/axel-paillaud/ticketsync/internal/user/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type mailerStub struct {
	sent     int
	lastURL  string
	lastUser domain.User
	err      error
}

func (m *mailerStub) SendUserInvitation(_ context.Context, user domain.User, invitationURL string) error {
	m.sent++
	m.lastUser = user
	m.lastURL = invitationURL
	return m.err
}

func newTestService(t *testing.T) (domain.Service, *gorm.DB, *mailerStub, *clock.FakeClock) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.UserInvitation{}))
	t.Cleanup(func() {
		db.Exec("DELETE FROM user_invitations")
		db.Exec("DELETE FROM users")
	})

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	mailer := &mailerStub{}
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))

	svc := NewService(ServiceParam{
		DB:     db,
		Repo:   repository.NewRepository(db),
		GenID:  node,
		Mailer: mailer,
		Clock:  clk,
		Log:    zap.NewNop(),
		Cfg:    config.Config{BaseURL: "https://ticketsync.test"},
	})
	return svc, db, mailer, clk
}

func TestCreateIssuesInvitation(t *testing.T) {
	svc, db, mailer, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, domain.CreateUserRequest{
		Email:     "Jane.Doe@Example.com",
		FirstName: "Jane",
		LastName:  "Doe",
		OrgID:     "100",
	})
	require.NoError(t, err)
	assert.Equal(t, "jane.doe@example.com", user.Email)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.False(t, user.IsVerified)

	var invite domain.UserInvitation
	require.NoError(t, db.First(&invite, "user_id = ?", user.ID).Error)
	assert.Nil(t, invite.AcceptedAt)

	assert.Equal(t, 1, mailer.sent)
	assert.Equal(t, "https://ticketsync.test/invitation/"+invite.Token, mailer.lastURL)
}

func TestCreateRejectsBadInput(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateUserRequest{Email: "not-an-email", OrgID: "100"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = svc.Create(ctx, domain.CreateUserRequest{Email: "a@b.co", Role: "ROLE_SUPER", OrgID: "100"})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestCreateDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateUserRequest{Email: "dup@example.com", OrgID: "100"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.CreateUserRequest{Email: "dup@example.com", OrgID: "100"})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestCreateSurvivesMailerFailure(t *testing.T) {
	svc, _, mailer, _ := newTestService(t)
	mailer.err = assert.AnError

	user, err := svc.Create(context.Background(), domain.CreateUserRequest{
		Email: "mailfail@example.com",
		OrgID: "100",
	})
	require.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, 1, mailer.sent)
}

func TestUpdateProfileThreshold(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, domain.CreateUserRequest{Email: "th@example.com", OrgID: "100"})
	require.NoError(t, err)

	enabled := true
	threshold := 1500.456
	updated, err := svc.UpdateProfile(ctx, user.ID.String(), domain.UpdateProfileRequest{
		AlertThresholdEnabled: &enabled,
		MonthlyAlertThreshold: &threshold,
	})
	require.NoError(t, err)
	assert.True(t, updated.AlertThresholdEnabled)
	require.NotNil(t, updated.MonthlyAlertThreshold)
	assert.Equal(t, 1500.46, *updated.MonthlyAlertThreshold)
}

func TestUpdateProfileRejectsBadThreshold(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, domain.CreateUserRequest{Email: "badth@example.com", OrgID: "100"})
	require.NoError(t, err)

	zero := 0.0
	_, err = svc.UpdateProfile(ctx, user.ID.String(), domain.UpdateProfileRequest{
		MonthlyAlertThreshold: &zero,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidThreshold)

	// Enabling alerts without ever setting a threshold is rejected too.
	enabled := true
	_, err = svc.UpdateProfile(ctx, user.ID.String(), domain.UpdateProfileRequest{
		AlertThresholdEnabled: &enabled,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidThreshold)
}

func TestAcceptInvitation(t *testing.T) {
	svc, db, _, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, domain.CreateUserRequest{Email: "accept@example.com", OrgID: "100"})
	require.NoError(t, err)

	var invite domain.UserInvitation
	require.NoError(t, db.First(&invite, "user_id = ?", user.ID).Error)

	accepted, err := svc.AcceptInvitation(ctx, invite.Token, "hunter2hunter2")
	require.NoError(t, err)
	assert.True(t, accepted.IsVerified)
	assert.NotEmpty(t, accepted.PasswordHash)

	// Second accept fails: the invitation is consumed.
	_, err = svc.AcceptInvitation(ctx, invite.Token, "hunter2hunter2")
	assert.ErrorIs(t, err, domain.ErrInvitationAccepted)
}

func TestAcceptInvitationExpired(t *testing.T) {
	svc, db, _, clk := newTestService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, domain.CreateUserRequest{Email: "late@example.com", OrgID: "100"})
	require.NoError(t, err)

	var invite domain.UserInvitation
	require.NoError(t, db.First(&invite, "user_id = ?", user.ID).Error)

	clk.Advance(8 * 24 * time.Hour)

	_, err = svc.AcceptInvitation(ctx, invite.Token, "hunter2hunter2")
	assert.ErrorIs(t, err, domain.ErrInvitationExpired)
}

func TestAcceptInvitationValidation(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.AcceptInvitation(ctx, "no-such-token", "hunter2hunter2")
	assert.ErrorIs(t, err, domain.ErrInvitationNotFound)

	_, err = svc.AcceptInvitation(ctx, "whatever", "short")
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)
}

func TestResendInvitationRotatesToken(t *testing.T) {
	svc, db, mailer, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, domain.CreateUserRequest{Email: "resend@example.com", OrgID: "100"})
	require.NoError(t, err)

	var before domain.UserInvitation
	require.NoError(t, db.First(&before, "user_id = ?", user.ID).Error)

	require.NoError(t, svc.ResendInvitation(ctx, user.ID.String()))
	assert.Equal(t, 2, mailer.sent)

	var after domain.UserInvitation
	require.NoError(t, db.First(&after, "user_id = ?", user.ID).Error)
	assert.NotEqual(t, before.Token, after.Token)
}
