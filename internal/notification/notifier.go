package notification

import (
	"context"

	ticketdomain "github.com/axel-paillaud/ticketsync/internal/ticket/domain"
	userdomain "github.com/axel-paillaud/ticketsync/internal/user/domain"
	"go.uber.org/zap"
)

// notifier fans ticket events out through the RecipientResolver.
// Everything here runs post-commit: failures are logged, never
// returned.
type notifier struct {
	resolver *RecipientResolver
	mailer   Mailer
	log      *zap.Logger
}

func NewNotifier(resolver *RecipientResolver, mailer Mailer, log *zap.Logger) ticketdomain.Notifier {
	return &notifier{
		resolver: resolver,
		mailer:   mailer,
		log:      log.Named("notification"),
	}
}

func (n *notifier) TicketCreated(ctx context.Context, ticket ticketdomain.Ticket, actor userdomain.User) {
	n.fanOut(ctx, ticket, actor, "ticket created", func(recipient userdomain.User) error {
		return n.mailer.SendTicketCreated(ctx, ticket, recipient)
	})
}

func (n *notifier) CommentAdded(ctx context.Context, comment ticketdomain.Comment, ticket ticketdomain.Ticket, actor userdomain.User) {
	n.fanOut(ctx, ticket, actor, "comment added", func(recipient userdomain.User) error {
		return n.mailer.SendCommentAdded(ctx, comment, ticket, recipient)
	})
}

func (n *notifier) StatusChanged(ctx context.Context, ticket ticketdomain.Ticket, oldStatus, newStatus ticketdomain.Status, actor userdomain.User) {
	n.fanOut(ctx, ticket, actor, "status changed", func(recipient userdomain.User) error {
		return n.mailer.SendStatusChanged(ctx, ticket, recipient, oldStatus, newStatus)
	})
}

func (n *notifier) fanOut(ctx context.Context, ticket ticketdomain.Ticket, actor userdomain.User, event string, send func(userdomain.User) error) {
	recipients, err := n.resolver.Resolve(ctx, ticket.OrgID, actor.ID)
	if err != nil {
		n.log.Warn("failed to resolve notification recipients",
			zap.String("event", event),
			zap.String("ticket_id", ticket.ID.String()),
			zap.Error(err),
		)
		return
	}

	for _, recipient := range recipients {
		if err := send(recipient); err != nil {
			n.log.Warn("failed to send notification",
				zap.String("event", event),
				zap.String("ticket_id", ticket.ID.String()),
				zap.String("user_id", recipient.ID.String()),
				zap.Error(err),
			)
		}
	}
}
