// Package authz gates access by role and organization membership.
// Admins can do everything; other users are confined to their own
// organization.
package authz

import (
	ticketdomain "github.com/axel-paillaud/ticketsync/internal/ticket/domain"
	userdomain "github.com/axel-paillaud/ticketsync/internal/user/domain"
	"github.com/bwmarrin/snowflake"
)

func CanAccessOrganization(user userdomain.User, orgID snowflake.ID) bool {
	return user.IsAdmin() || user.OrgID == orgID
}

func CanViewTicket(user userdomain.User, ticket ticketdomain.Ticket) bool {
	return CanAccessOrganization(user, ticket.OrgID)
}

func CanEditTicket(user userdomain.User, ticket ticketdomain.Ticket) bool {
	return CanAccessOrganization(user, ticket.OrgID)
}

func CanDeleteTicket(user userdomain.User, ticket ticketdomain.Ticket) bool {
	return user.IsAdmin()
}

func CanEditComment(user userdomain.User, comment ticketdomain.Comment) bool {
	return user.IsAdmin() || comment.AuthorID == user.ID
}

func CanDeleteComment(user userdomain.User, comment ticketdomain.Comment) bool {
	return user.IsAdmin() || comment.AuthorID == user.ID
}

// CanManageTimeEntries covers create, update and delete of billable
// time. Restricted to admins.
func CanManageTimeEntries(user userdomain.User) bool {
	return user.IsAdmin()
}

func CanManageUsers(user userdomain.User) bool {
	return user.IsAdmin()
}
