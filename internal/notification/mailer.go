// Package notification dispatches transactional email for ticket
// activity, invitations and billing threshold alerts.
package notification

import (
	"context"

	orgdomain "github.com/axel-paillaud/ticketsync/internal/organization/domain"
	ticketdomain "github.com/axel-paillaud/ticketsync/internal/ticket/domain"
	userdomain "github.com/axel-paillaud/ticketsync/internal/user/domain"
)

// Mailer renders and delivers one email per call. Implementations are
// synchronous; callers decide whether a failure matters.
type Mailer interface {
	SendThresholdExceededAlert(ctx context.Context, user userdomain.User, org orgdomain.Organization, currentTotal, threshold float64) error
	SendTicketCreated(ctx context.Context, ticket ticketdomain.Ticket, recipient userdomain.User) error
	SendCommentAdded(ctx context.Context, comment ticketdomain.Comment, ticket ticketdomain.Ticket, recipient userdomain.User) error
	SendStatusChanged(ctx context.Context, ticket ticketdomain.Ticket, recipient userdomain.User, oldStatus, newStatus ticketdomain.Status) error
	SendUserInvitation(ctx context.Context, user userdomain.User, invitationURL string) error
}

// NoOpMailer drops everything. Used in development and tests.
type NoOpMailer struct{}

func (NoOpMailer) SendThresholdExceededAlert(context.Context, userdomain.User, orgdomain.Organization, float64, float64) error {
	return nil
}

func (NoOpMailer) SendTicketCreated(context.Context, ticketdomain.Ticket, userdomain.User) error {
	return nil
}

func (NoOpMailer) SendCommentAdded(context.Context, ticketdomain.Comment, ticketdomain.Ticket, userdomain.User) error {
	return nil
}

func (NoOpMailer) SendStatusChanged(context.Context, ticketdomain.Ticket, userdomain.User, ticketdomain.Status, ticketdomain.Status) error {
	return nil
}

func (NoOpMailer) SendUserInvitation(context.Context, userdomain.User, string) error {
	return nil
}
