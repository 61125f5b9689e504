package server

import (
	"errors"
	"net/http"
	"strings"

	orgdomain "github.com/axel-paillaud/ticketsync/internal/organization/domain"
	ticketdomain "github.com/axel-paillaud/ticketsync/internal/ticket/domain"
	tedomain "github.com/axel-paillaud/ticketsync/internal/timeentry/domain"
	userdomain "github.com/axel-paillaud/ticketsync/internal/user/domain"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case isValidationError(err):
		code := err.Error()
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: "invalid value",
				},
			},
		}
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, ticketdomain.ErrForbidden):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, orgdomain.ErrInvalidName),
		errors.Is(err, orgdomain.ErrInvalidHourlyRate),
		errors.Is(err, orgdomain.ErrInvalidOrganization),
		errors.Is(err, userdomain.ErrInvalidEmail),
		errors.Is(err, userdomain.ErrInvalidRole),
		errors.Is(err, userdomain.ErrInvalidUser),
		errors.Is(err, userdomain.ErrInvalidThreshold),
		errors.Is(err, userdomain.ErrInvalidPassword),
		errors.Is(err, userdomain.ErrInvitationExpired),
		errors.Is(err, ticketdomain.ErrInvalidTitle),
		errors.Is(err, ticketdomain.ErrInvalidTicket),
		errors.Is(err, ticketdomain.ErrInvalidComment),
		errors.Is(err, ticketdomain.ErrInvalidAttachment),
		errors.Is(err, ticketdomain.ErrInvalidPageToken),
		errors.Is(err, tedomain.ErrInvalidDescription),
		errors.Is(err, tedomain.ErrInvalidHours),
		errors.Is(err, tedomain.ErrInvalidWorkDate),
		errors.Is(err, tedomain.ErrInvalidEntry):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, orgdomain.ErrDuplicateSlug),
		errors.Is(err, userdomain.ErrDuplicateEmail),
		errors.Is(err, userdomain.ErrInvitationAccepted):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, orgdomain.ErrNotFound),
		errors.Is(err, userdomain.ErrNotFound),
		errors.Is(err, userdomain.ErrInvitationNotFound),
		errors.Is(err, ticketdomain.ErrNotFound),
		errors.Is(err, ticketdomain.ErrCommentNotFound),
		errors.Is(err, ticketdomain.ErrAttachmentNotFound),
		errors.Is(err, ticketdomain.ErrStatusNotFound),
		errors.Is(err, ticketdomain.ErrPriorityNotFound),
		errors.Is(err, tedomain.ErrNotFound),
		errors.Is(err, tedomain.ErrTicketNotFound),
		errors.Is(err, tedomain.ErrOrgNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorField(code string) string {
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}
