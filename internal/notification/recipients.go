package notification

import (
	"context"

	userdomain "github.com/axel-paillaud/ticketsync/internal/user/domain"
	"github.com/bwmarrin/snowflake"
)

// RecipientResolver computes who hears about ticket activity: every
// admin plus every member of the ticket's organization, deduplicated,
// excluding the user who performed the action.
type RecipientResolver struct {
	users userdomain.Repository
}

func NewRecipientResolver(users userdomain.Repository) *RecipientResolver {
	return &RecipientResolver{users: users}
}

func (r *RecipientResolver) Resolve(ctx context.Context, orgID snowflake.ID, actorID snowflake.ID) ([]userdomain.User, error) {
	admins, err := r.users.ListByRole(ctx, userdomain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	members, err := r.users.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}

	seen := make(map[snowflake.ID]struct{}, len(admins)+len(members))
	recipients := make([]userdomain.User, 0, len(admins)+len(members))
	for _, user := range append(admins, members...) {
		if user.ID == actorID {
			continue
		}
		if _, ok := seen[user.ID]; ok {
			continue
		}
		seen[user.ID] = struct{}{}
		recipients = append(recipients, user)
	}
	return recipients, nil
}
