package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

func (s *Server) MonthlyReport(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	org := currentOrg(c)
	total, err := s.timeEntrySvc.MonthlyTotal(c.Request.Context(), org.ID.String(), year, time.Month(month))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"org_id":       org.ID.String(),
		"year":         year,
		"month":        month,
		"billed_total": total,
	})
}

func (s *Server) TimeEntryReport(c *gin.Context) {
	start, err := time.Parse(dateLayout, c.Query("start"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	end, err := time.Parse(dateLayout, c.Query("end"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	entries, err := s.timeEntrySvc.ListByDateRange(c.Request.Context(), c.Query("org"), start, end)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}
