package server

import (
	"net/http"
	"time"

	"github.com/axel-paillaud/ticketsync/internal/authz"
	tedomain "github.com/axel-paillaud/ticketsync/internal/timeentry/domain"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type createTimeEntryRequest struct {
	Description string  `json:"description"`
	Hours       float64 `json:"hours"`
	WorkDate    string  `json:"work_date"`
}

type updateTimeEntryRequest struct {
	Description *string  `json:"description"`
	Hours       *float64 `json:"hours"`
	WorkDate    *string  `json:"work_date"`
}

func (s *Server) ListTimeEntries(c *gin.Context) {
	ticket, err := s.ticketInOrg(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	entries, err := s.timeEntrySvc.ListByTicket(c.Request.Context(), ticket.ID.String())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}

func (s *Server) CreateTimeEntry(c *gin.Context) {
	user := currentUser(c)
	if !authz.CanManageTimeEntries(user) {
		AbortWithError(c, ErrForbidden)
		return
	}

	var req createTimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	workDate, err := time.Parse(dateLayout, req.WorkDate)
	if err != nil {
		AbortWithError(c, tedomain.ErrInvalidWorkDate)
		return
	}

	ticket, err := s.ticketInOrg(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	entry, err := s.timeEntrySvc.Create(c.Request.Context(), tedomain.CreateTimeEntryRequest{
		TicketID:    ticket.ID.String(),
		CreatedByID: user.ID.String(),
		Description: req.Description,
		Hours:       req.Hours,
		WorkDate:    workDate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (s *Server) UpdateTimeEntry(c *gin.Context) {
	if !authz.CanManageTimeEntries(currentUser(c)) {
		AbortWithError(c, ErrForbidden)
		return
	}

	var req updateTimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	update := tedomain.UpdateTimeEntryRequest{
		Description: req.Description,
		Hours:       req.Hours,
	}
	if req.WorkDate != nil {
		workDate, err := time.Parse(dateLayout, *req.WorkDate)
		if err != nil {
			AbortWithError(c, tedomain.ErrInvalidWorkDate)
			return
		}
		update.WorkDate = &workDate
	}

	entry, err := s.timeEntrySvc.Update(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (s *Server) DeleteTimeEntry(c *gin.Context) {
	if !authz.CanManageTimeEntries(currentUser(c)) {
		AbortWithError(c, ErrForbidden)
		return
	}

	if err := s.timeEntrySvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
