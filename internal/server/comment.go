package server

import (
	"net/http"

	ticketdomain "github.com/axel-paillaud/ticketsync/internal/ticket/domain"
	"github.com/axel-paillaud/ticketsync/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

type commentRequest struct {
	Body string `json:"body"`
}

type attachmentRequest struct {
	CommentID string `json:"comment_id"`
	Filename  string `json:"filename"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
}

func (s *Server) ListComments(c *gin.Context) {
	var query struct {
		pagination.Pagination
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	ticket, err := s.ticketInOrg(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.ticketSvc.ListComments(c.Request.Context(), ticketdomain.ListCommentsRequest{
		TicketID:  ticket.ID.String(),
		PageToken: query.PageToken,
		PageSize:  query.PageSize,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp.Comments, "page_info": resp.PageInfo})
}

func (s *Server) AddComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	ticket, err := s.ticketInOrg(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	comment, err := s.ticketSvc.AddComment(c.Request.Context(), currentUser(c), ticket.ID.String(), req.Body)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (s *Server) UpdateComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	comment, err := s.ticketSvc.UpdateComment(c.Request.Context(), currentUser(c), c.Param("id"), req.Body)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (s *Server) DeleteComment(c *gin.Context) {
	if err := s.ticketSvc.DeleteComment(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) ListAttachments(c *gin.Context) {
	ticket, err := s.ticketInOrg(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	attachments, err := s.ticketSvc.ListAttachments(c.Request.Context(), ticket.ID.String())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": attachments})
}

func (s *Server) AddAttachment(c *gin.Context) {
	var req attachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	ticket, err := s.ticketInOrg(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	attachment, err := s.ticketSvc.AddAttachment(c.Request.Context(), currentUser(c), ticketdomain.CreateAttachmentRequest{
		TicketID:  ticket.ID.String(),
		CommentID: req.CommentID,
		Filename:  req.Filename,
		MimeType:  req.MimeType,
		SizeBytes: req.SizeBytes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, attachment)
}

func (s *Server) DeleteAttachment(c *gin.Context) {
	if err := s.ticketSvc.DeleteAttachment(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
