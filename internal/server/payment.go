package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	billingdomain "github.com/konektanet/konekta/internal/billing/domain"
	customerdomain "github.com/konektanet/konekta/internal/customer/domain"
	"github.com/konektanet/konekta/internal/receipt"
	"github.com/konektanet/konekta/pkg/db/pagination"
)

type recordPaymentRequest struct {
	CustomerID  string `json:"customer_id"`
	PlanID      string `json:"plan_id"`
	Amount      int64  `json:"amount"`
	PaymentDate string `json:"payment_date"`
}

func (s *Server) RecordPayment(c *gin.Context) {
	var req recordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	paymentDate, err := parseOptionalDate(req.PaymentDate)
	if err != nil {
		AbortWithError(c, newValidationError("payment_date", "invalid_payment_date", "invalid payment date"))
		return
	}

	resp, err := s.billingSvc.RecordPayment(c.Request.Context(), billingdomain.RecordPaymentRequest{
		CustomerID:  strings.TrimSpace(req.CustomerID),
		PlanID:      strings.TrimSpace(req.PlanID),
		Amount:      req.Amount,
		PaymentDate: paymentDate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPayments(c *gin.Context) {
	var query struct {
		pagination.Pagination
		CustomerID string `form:"customer_id"`
		Year       string `form:"year"`
		Month      string `form:"month"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	year, err := parseOptionalInt(query.Year)
	if err != nil {
		AbortWithError(c, newValidationError("year", "invalid_year", "invalid year"))
		return
	}
	month, err := parseOptionalInt(query.Month)
	if err != nil || month < 0 || month > 12 {
		AbortWithError(c, newValidationError("month", "invalid_month", "invalid month"))
		return
	}

	resp, err := s.billingSvc.ListPayments(c.Request.Context(), billingdomain.ListPaymentsRequest{
		Pagination: query.Pagination,
		CustomerID: strings.TrimSpace(query.CustomerID),
		Year:       year,
		Month:      month,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCustomerPayments(c *gin.Context) {
	var query struct {
		pagination.Pagination
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.billingSvc.ListPayments(c.Request.Context(), billingdomain.ListPaymentsRequest{
		Pagination: query.Pagination,
		CustomerID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPaymentByID(c *gin.Context) {
	resp, err := s.billingSvc.GetPayment(c.Request.Context(), billingdomain.GetPaymentRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// GetPaymentReceipt renders the payment as a printable PDF.
func (s *Server) GetPaymentReceipt(c *gin.Context) {
	payment, err := s.billingSvc.GetPayment(c.Request.Context(), billingdomain.GetPaymentRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	customer, err := s.customerSvc.GetByID(c.Request.Context(), customerdomain.GetCustomerRequest{
		ID: payment.CustomerID.String(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := receipt.Generate(receipt.Data{
		ReceiptNumber: payment.ID.String(),
		BusinessName:  s.cfg.AppName,
		BranchName:    customer.Branch,
		CustomerName:  customer.FullName,
		CustomerAddr:  customerAddress(customer),
		PlanName:      payment.PlanName,
		PaymentDate:   payment.PaymentDate.String(),
		AmountPaid:    formatCentavos(payment.AmountPaid),
		MonthsCovered: payment.MonthsCovered,
		CreditBalance: formatCentavos(customer.Credit),
		NextDueDate:   payment.ResultingDue.String(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=receipt-%s.pdf", payment.ID))
	c.DataFromReader(http.StatusOK, -1, "application/pdf", doc, nil)
}

func customerAddress(customer customerdomain.Customer) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{customer.Purok, customer.Sitio, customer.Barangay} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func formatCentavos(value int64) string {
	return fmt.Sprintf("PHP %d.%02d", value/100, value%100)
}

func isPaymentValidationError(err error) bool {
	switch {
	case errors.Is(err, billingdomain.ErrInvalidAmount),
		errors.Is(err, billingdomain.ErrInvalidPlanPrice),
		errors.Is(err, billingdomain.ErrInvalidPaymentDate),
		errors.Is(err, billingdomain.ErrInvalidID):
		return true
	default:
		return false
	}
}
