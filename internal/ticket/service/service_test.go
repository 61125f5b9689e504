package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/axel-paillaud/ticketsync/internal/clock"
	"github.com/axel-paillaud/ticketsync/internal/ticket/domain"
	"github.com/axel-paillaud/ticketsync/internal/ticket/repository"
	userdomain "github.com/axel-paillaud/ticketsync/internal/user/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type notifierStub struct {
	created       int
	comments      int
	statusChanges int
	lastOld       domain.Status
	lastNew       domain.Status
}

func (n *notifierStub) TicketCreated(context.Context, domain.Ticket, userdomain.User) {
	n.created++
}

func (n *notifierStub) CommentAdded(context.Context, domain.Comment, domain.Ticket, userdomain.User) {
	n.comments++
}

func (n *notifierStub) StatusChanged(_ context.Context, _ domain.Ticket, oldStatus, newStatus domain.Status, _ userdomain.User) {
	n.statusChanges++
	n.lastOld = oldStatus
	n.lastNew = newStatus
}

type fixture struct {
	svc      domain.Service
	notifier *notifierStub
	node     *snowflake.Node
	admin    userdomain.User
	member   userdomain.User
	orgID    snowflake.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Status{}, &domain.Priority{}, &domain.Ticket{},
		&domain.Comment{}, &domain.Attachment{},
	))
	t.Cleanup(func() {
		for _, table := range []string{"attachments", "comments", "tickets", "priorities", "statuses"} {
			db.Exec("DELETE FROM " + table)
		}
	})

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	seed := []any{
		&domain.Status{ID: node.Generate(), Name: "Open", Slug: "open", SortOrder: 1},
		&domain.Status{ID: node.Generate(), Name: "In progress", Slug: "in-progress", SortOrder: 2},
		&domain.Status{ID: node.Generate(), Name: "Closed", Slug: "closed", IsClosed: true, SortOrder: 3},
		&domain.Priority{ID: node.Generate(), Name: "low", Level: 1, Label: "Low"},
		&domain.Priority{ID: node.Generate(), Name: "normal", Level: 2, Label: "Normal"},
		&domain.Priority{ID: node.Generate(), Name: "high", Level: 3, Label: "High"},
	}
	for _, row := range seed {
		require.NoError(t, db.Create(row).Error)
	}

	notifier := &notifierStub{}
	svc := NewService(ServiceParam{
		Repo:     repository.NewRepository(db),
		GenID:    node,
		Notifier: notifier,
		Clock:    clock.NewFakeClock(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)),
		Log:      zap.NewNop(),
	})

	orgID := node.Generate()
	return &fixture{
		svc:      svc,
		notifier: notifier,
		node:     node,
		admin:    userdomain.User{ID: node.Generate(), Role: userdomain.RoleAdmin, OrgID: orgID},
		member:   userdomain.User{ID: node.Generate(), Role: userdomain.RoleUser, OrgID: orgID},
		orgID:    orgID,
	}
}

// otherMember returns a user in the same organization with an ID that
// cannot collide with the fixture users.
func (f *fixture) otherMember() userdomain.User {
	return userdomain.User{ID: f.node.Generate(), Role: userdomain.RoleUser, OrgID: f.orgID}
}

func (f *fixture) createTicket(t *testing.T, title string) *domain.Ticket {
	t.Helper()
	ticket, err := f.svc.Create(context.Background(), f.member, domain.CreateTicketRequest{
		Title: title,
		OrgID: f.orgID.String(),
	})
	require.NoError(t, err)
	return ticket
}

func TestCreateDefaultsAndNotifies(t *testing.T) {
	f := newFixture(t)

	ticket := f.createTicket(t, "Printer on fire")
	require.NotNil(t, ticket.Status)
	require.NotNil(t, ticket.Priority)
	assert.Equal(t, "open", ticket.Status.Slug)
	assert.Equal(t, "normal", ticket.Priority.Name)
	assert.Equal(t, 1, f.notifier.created)

	_, err := f.svc.Create(context.Background(), f.member, domain.CreateTicketRequest{
		Title: "   ",
		OrgID: f.orgID.String(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTitle)
}

func TestListOrdersByPriorityAndHidesClosed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	low := f.createTicket(t, "Low priority")
	urgent := f.createTicket(t, "Urgent")
	closed := f.createTicket(t, "Done already")

	priorities, err := f.svc.ListPriorities(ctx)
	require.NoError(t, err)
	byName := map[string]domain.Priority{}
	for _, p := range priorities {
		byName[p.Name] = p
	}

	lowID := byName["low"].ID.String()
	highID := byName["high"].ID.String()
	_, err = f.svc.Update(ctx, f.admin, low.ID.String(), domain.UpdateTicketRequest{PriorityID: &lowID})
	require.NoError(t, err)
	_, err = f.svc.Update(ctx, f.admin, urgent.ID.String(), domain.UpdateTicketRequest{PriorityID: &highID})
	require.NoError(t, err)
	_, err = f.svc.ChangeStatus(ctx, f.admin, closed.ID.String(), "closed")
	require.NoError(t, err)

	open, err := f.svc.ListByOrganization(ctx, f.orgID.String(), false)
	require.NoError(t, err)
	require.Len(t, open, 2)
	assert.Equal(t, urgent.ID, open[0].ID)
	assert.Equal(t, low.ID, open[1].ID)

	all, err := f.svc.ListByOrganization(ctx, f.orgID.String(), true)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestStatusChangeIsAdminOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ticket := f.createTicket(t, "Needs triage")

	_, err := f.svc.ChangeStatus(ctx, f.member, ticket.ID.String(), "in-progress")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, 0, f.notifier.statusChanges)

	updated, err := f.svc.ChangeStatus(ctx, f.admin, ticket.ID.String(), "in-progress")
	require.NoError(t, err)
	assert.Equal(t, "in-progress", updated.Status.Slug)
	assert.Equal(t, 1, f.notifier.statusChanges)
	assert.Equal(t, "open", f.notifier.lastOld.Slug)
	assert.Equal(t, "in-progress", f.notifier.lastNew.Slug)

	// Re-applying the same status is a no-op for notifications.
	_, err = f.svc.ChangeStatus(ctx, f.admin, ticket.ID.String(), "in-progress")
	require.NoError(t, err)
	assert.Equal(t, 1, f.notifier.statusChanges)
}

func TestOrgMoveIsAdminOnly(t *testing.T) {
	f := newFixture(t)

	ticket := f.createTicket(t, "Wrong org")
	otherOrg := f.orgID.String()
	_, err := f.svc.Update(context.Background(), f.member, ticket.ID.String(), domain.UpdateTicketRequest{OrgID: &otherOrg})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestComments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ticket := f.createTicket(t, "Discussion")

	comment, err := f.svc.AddComment(ctx, f.member, ticket.ID.String(), "first!")
	require.NoError(t, err)
	assert.Equal(t, 1, f.notifier.comments)

	_, err = f.svc.AddComment(ctx, f.member, ticket.ID.String(), "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidComment)

	// Only the author or an admin may edit.
	other := f.otherMember()
	require.NotEqual(t, comment.AuthorID, other.ID)
	_, err = f.svc.UpdateComment(ctx, other, comment.ID.String(), "hijacked")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	edited, err := f.svc.UpdateComment(ctx, f.member, comment.ID.String(), "first, edited")
	require.NoError(t, err)
	assert.Equal(t, "first, edited", edited.Body)

	require.NoError(t, f.svc.DeleteComment(ctx, f.admin, comment.ID.String()))
	resp, err := f.svc.ListComments(ctx, domain.ListCommentsRequest{TicketID: ticket.ID.String()})
	require.NoError(t, err)
	assert.Empty(t, resp.Comments)
	assert.False(t, resp.PageInfo.HasMore)
}

func TestListCommentsPaginates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ticket := f.createTicket(t, "Long thread")
	for i := 0; i < 5; i++ {
		_, err := f.svc.AddComment(ctx, f.member, ticket.ID.String(), fmt.Sprintf("reply %d", i))
		require.NoError(t, err)
	}

	first, err := f.svc.ListComments(ctx, domain.ListCommentsRequest{
		TicketID: ticket.ID.String(),
		PageSize: 2,
	})
	require.NoError(t, err)
	require.Len(t, first.Comments, 2)
	assert.Equal(t, "reply 0", first.Comments[0].Body)
	assert.True(t, first.PageInfo.HasMore)
	require.NotEmpty(t, first.PageInfo.NextPageToken)

	second, err := f.svc.ListComments(ctx, domain.ListCommentsRequest{
		TicketID:  ticket.ID.String(),
		PageToken: first.PageInfo.NextPageToken,
		PageSize:  2,
	})
	require.NoError(t, err)
	require.Len(t, second.Comments, 2)
	assert.Equal(t, "reply 2", second.Comments[0].Body)
	assert.True(t, second.PageInfo.HasMore)

	last, err := f.svc.ListComments(ctx, domain.ListCommentsRequest{
		TicketID:  ticket.ID.String(),
		PageToken: second.PageInfo.NextPageToken,
		PageSize:  2,
	})
	require.NoError(t, err)
	require.Len(t, last.Comments, 1)
	assert.Equal(t, "reply 4", last.Comments[0].Body)
	assert.False(t, last.PageInfo.HasMore)

	_, err = f.svc.ListComments(ctx, domain.ListCommentsRequest{
		TicketID:  ticket.ID.String(),
		PageToken: "not-a-cursor",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPageToken)
}

func TestAttachments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ticket := f.createTicket(t, "With files")

	attachment, err := f.svc.AddAttachment(ctx, f.member, domain.CreateAttachmentRequest{
		TicketID:  ticket.ID.String(),
		Filename:  "invoice.pdf",
		MimeType:  "application/pdf",
		SizeBytes: 2048,
	})
	require.NoError(t, err)
	assert.NotEqual(t, "invoice.pdf", attachment.StoredName)
	assert.Contains(t, attachment.StoredName, ".pdf")

	_, err = f.svc.AddAttachment(ctx, f.member, domain.CreateAttachmentRequest{Filename: "orphan.txt"})
	assert.ErrorIs(t, err, domain.ErrInvalidAttachment)

	listed, err := f.svc.ListAttachments(ctx, ticket.ID.String())
	require.NoError(t, err)
	require.Len(t, listed, 1)

	other := f.otherMember()
	require.NotEqual(t, attachment.UploaderID, other.ID)
	err = f.svc.DeleteAttachment(ctx, other, attachment.ID.String())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, f.svc.DeleteAttachment(ctx, f.member, attachment.ID.String()))
}
