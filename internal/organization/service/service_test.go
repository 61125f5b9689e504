package service

import (
	"context"
	"testing"

	"github.com/axel-paillaud/ticketsync/internal/organization/domain"
	"github.com/axel-paillaud/ticketsync/internal/organization/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Organization{}))
	t.Cleanup(func() { db.Exec("DELETE FROM organizations") })

	node, err := snowflake.NewNode(6)
	require.NoError(t, err)

	return NewService(db, repository.NewRepository(db), node)
}

func TestCreateDefaultsRate(t *testing.T) {
	svc := newTestService(t)

	org, err := svc.Create(context.Background(), domain.CreateOrganizationRequest{Name: "Acme Corp"})
	require.NoError(t, err)
	assert.Equal(t, "acme-corp", org.Slug)
	assert.Equal(t, 80.00, org.HourlyRate)
	assert.True(t, org.IsActive)
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateOrganizationRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	bad := -1.0
	_, err = svc.Create(ctx, domain.CreateOrganizationRequest{Name: "X", HourlyRate: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidHourlyRate)
}

func TestCreateDuplicateSlug(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateOrganizationRequest{Name: "Dup Org"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.CreateOrganizationRequest{Name: "Dup Org"})
	assert.ErrorIs(t, err, domain.ErrDuplicateSlug)
}

func TestUpdateRate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	org, err := svc.Create(ctx, domain.CreateOrganizationRequest{Name: "Rates"})
	require.NoError(t, err)

	rate := 95.456
	updated, err := svc.Update(ctx, org.ID.String(), domain.UpdateOrganizationRequest{HourlyRate: &rate})
	require.NoError(t, err)
	assert.Equal(t, 95.46, updated.HourlyRate)
}

func TestGetBySlug(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateOrganizationRequest{Name: "Lookup Me"})
	require.NoError(t, err)

	found, err := svc.GetBySlug(ctx, "lookup-me")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = svc.GetBySlug(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
