package server

import (
	"net/http"
	"strconv"

	"github.com/axel-paillaud/ticketsync/internal/authz"
	ticketdomain "github.com/axel-paillaud/ticketsync/internal/ticket/domain"
	"github.com/gin-gonic/gin"
)

type createTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PriorityID  string `json:"priority_id"`
	AssigneeID  string `json:"assignee_id"`
}

type updateTicketRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	PriorityID  *string `json:"priority_id"`
	AssigneeID  *string `json:"assignee_id"`
	StatusSlug  *string `json:"status"`
	OrgID       *string `json:"org_id"`
}

type assignTicketRequest struct {
	AssigneeID string `json:"assignee_id"`
}

func (s *Server) ListTickets(c *gin.Context) {
	includeClosed, _ := strconv.ParseBool(c.Query("include_closed"))

	tickets, err := s.ticketSvc.ListByOrganization(c.Request.Context(), currentOrg(c).ID.String(), includeClosed)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tickets})
}

func (s *Server) CreateTicket(c *gin.Context) {
	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	ticket, err := s.ticketSvc.Create(c.Request.Context(), currentUser(c), ticketdomain.CreateTicketRequest{
		Title:       req.Title,
		Description: req.Description,
		OrgID:       currentOrg(c).ID.String(),
		PriorityID:  req.PriorityID,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

func (s *Server) GetTicket(c *gin.Context) {
	ticket, err := s.ticketInOrg(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (s *Server) UpdateTicket(c *gin.Context) {
	var req updateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	ticket, err := s.ticketInOrg(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if !authz.CanEditTicket(currentUser(c), *ticket) {
		AbortWithError(c, ErrForbidden)
		return
	}

	updated, err := s.ticketSvc.Update(c.Request.Context(), currentUser(c), ticket.ID.String(), ticketdomain.UpdateTicketRequest{
		Title:       req.Title,
		Description: req.Description,
		PriorityID:  req.PriorityID,
		AssigneeID:  req.AssigneeID,
		StatusSlug:  req.StatusSlug,
		OrgID:       req.OrgID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) DeleteTicket(c *gin.Context) {
	ticket, err := s.ticketInOrg(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if !authz.CanDeleteTicket(currentUser(c), *ticket) {
		AbortWithError(c, ErrForbidden)
		return
	}

	if err := s.ticketSvc.Delete(c.Request.Context(), ticket.ID.String()); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) AssignTicket(c *gin.Context) {
	var req assignTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	ticket, err := s.ticketInOrg(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if !authz.CanEditTicket(currentUser(c), *ticket) {
		AbortWithError(c, ErrForbidden)
		return
	}

	updated, err := s.ticketSvc.Assign(c.Request.Context(), ticket.ID.String(), req.AssigneeID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) ListStatuses(c *gin.Context) {
	statuses, err := s.ticketSvc.ListStatuses(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": statuses})
}

func (s *Server) ListPriorities(c *gin.Context) {
	priorities, err := s.ticketSvc.ListPriorities(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": priorities})
}

// ticketInOrg loads the :id ticket and hides tickets that belong to a
// different organization than the one resolved from the URL.
func (s *Server) ticketInOrg(c *gin.Context) (*ticketdomain.Ticket, error) {
	ticket, err := s.ticketSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		return nil, err
	}
	if ticket.OrgID != currentOrg(c).ID || !authz.CanViewTicket(currentUser(c), *ticket) {
		return nil, ticketdomain.ErrNotFound
	}
	return ticket, nil
}
