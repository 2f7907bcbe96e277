package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	reportingdomain "github.com/konektanet/konekta/internal/reporting/domain"
)

func (s *Server) ListSales(c *gin.Context) {
	from, err := parseOptionalDate(c.Query("from"))
	if err != nil {
		AbortWithError(c, newValidationError("from", "invalid_date", "invalid date"))
		return
	}
	to, err := parseOptionalDate(c.Query("to"))
	if err != nil {
		AbortWithError(c, newValidationError("to", "invalid_date", "invalid date"))
		return
	}

	var customerID snowflake.ID
	if raw := strings.TrimSpace(c.Query("customer_id")); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil || id == 0 {
			AbortWithError(c, newValidationError("customer_id", "invalid_id", "invalid id"))
			return
		}
		customerID = id
	}

	resp, err := s.reportingSvc.ListSales(c.Request.Context(), reportingdomain.ListSalesRequest{
		Filter: reportingdomain.ListSalesFilter{
			From:       from,
			To:         to,
			CustomerID: customerID,
			Branch:     strings.TrimSpace(c.Query("branch")),
		},
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetSalesAggregate(c *gin.Context) {
	year, err := parseOptionalInt(c.Query("year"))
	if err != nil {
		AbortWithError(c, newValidationError("year", "invalid_year", "invalid year"))
		return
	}

	resp, err := s.reportingSvc.Sales(c.Request.Context(), reportingdomain.SalesRequest{
		Year: year,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetDashboard(c *gin.Context) {
	resp, err := s.reportingSvc.Dashboard(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isSalesValidationError(err error) bool {
	switch {
	case errors.Is(err, reportingdomain.ErrInvalidYear),
		errors.Is(err, reportingdomain.ErrInvalidRange):
		return true
	default:
		return false
	}
}
