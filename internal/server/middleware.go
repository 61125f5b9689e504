package server

import (
	"strings"

	"github.com/axel-paillaud/ticketsync/internal/authz"
	orgdomain "github.com/axel-paillaud/ticketsync/internal/organization/domain"
	userdomain "github.com/axel-paillaud/ticketsync/internal/user/domain"
	"github.com/gin-gonic/gin"
)

const (
	// HeaderUserID carries the authenticated user's ID, set by the
	// fronting proxy. Authentication itself happens upstream.
	HeaderUserID = "X-User-ID"

	contextUserKey = "current_user"
	contextOrgKey  = "current_org"
)

// IdentityRequired loads the user named by the identity header and
// stores it in the request context.
func (s *Server) IdentityRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(HeaderUserID))
		if userID == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		user, err := s.userSvc.GetByID(c.Request.Context(), userID)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Set(contextUserKey, *user)
		c.Next()
	}
}

func (s *Server) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if !user.IsAdmin() {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

// UserManagerRequired gates account administration routes.
func (s *Server) UserManagerRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authz.CanManageUsers(currentUser(c)) {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

// OrgContext resolves the :slug route segment to an organization and
// verifies the current user may access it.
func (s *Server) OrgContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		org, err := s.organizationSvc.GetBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			AbortWithError(c, err)
			return
		}

		if !authz.CanAccessOrganization(currentUser(c), org.ID) {
			AbortWithError(c, ErrForbidden)
			return
		}

		c.Set(contextOrgKey, *org)
		c.Next()
	}
}

func currentUser(c *gin.Context) userdomain.User {
	value, ok := c.Get(contextUserKey)
	if !ok {
		return userdomain.User{}
	}
	user, _ := value.(userdomain.User)
	return user
}

func currentOrg(c *gin.Context) orgdomain.Organization {
	value, ok := c.Get(contextOrgKey)
	if !ok {
		return orgdomain.Organization{}
	}
	org, _ := value.(orgdomain.Organization)
	return org
}
