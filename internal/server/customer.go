package server

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	customerdomain "github.com/konektanet/konekta/internal/customer/domain"
	"github.com/konektanet/konekta/pkg/db/pagination"
)

const maxImageSize = 10 << 20 // 10 MiB

type customerRequest struct {
	FullName string `json:"fullname"`
	Phone    string `json:"phone"`
	Purok    string `json:"purok"`
	Sitio    string `json:"sitio"`
	Barangay string `json:"barangay"`
	Branch   string `json:"branch"`
	Notes    string `json:"notes"`
	PlanID   string `json:"plan_id"`
	DueDate  string `json:"duedate"`
	Credit   *int64 `json:"credit"`
}

func (s *Server) CreateCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	dueDate, err := parseOptionalDate(req.DueDate)
	if err != nil {
		AbortWithError(c, newValidationError("duedate", "invalid_duedate", "invalid due date"))
		return
	}

	resp, err := s.customerSvc.Create(c.Request.Context(), customerdomain.CreateCustomerRequest{
		FullName: req.FullName,
		Phone:    req.Phone,
		Purok:    req.Purok,
		Sitio:    req.Sitio,
		Barangay: req.Barangay,
		Branch:   req.Branch,
		Notes:    req.Notes,
		PlanID:   req.PlanID,
		DueDate:  dueDate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCustomers(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Name   string `form:"name"`
		Branch string `form:"branch"`
		State  string `form:"state"`
		PlanID string `form:"plan_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerSvc.List(c.Request.Context(), customerdomain.ListCustomerRequest{
		Pagination: query.Pagination,
		Name:       strings.TrimSpace(query.Name),
		Branch:     strings.TrimSpace(query.Branch),
		State:      strings.TrimSpace(query.State),
		PlanID:     strings.TrimSpace(query.PlanID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCustomerByID(c *gin.Context) {
	resp, err := s.customerSvc.GetByID(c.Request.Context(), customerdomain.GetCustomerRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	dueDate, err := parseOptionalDate(req.DueDate)
	if err != nil {
		AbortWithError(c, newValidationError("duedate", "invalid_duedate", "invalid due date"))
		return
	}

	resp, err := s.customerSvc.Update(c.Request.Context(), customerdomain.UpdateCustomerRequest{
		ID:       strings.TrimSpace(c.Param("id")),
		FullName: req.FullName,
		Phone:    req.Phone,
		Purok:    req.Purok,
		Sitio:    req.Sitio,
		Barangay: req.Barangay,
		Branch:   req.Branch,
		Notes:    req.Notes,
		PlanID:   req.PlanID,
		DueDate:  dueDate,
		Credit:   req.Credit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateCustomerNotes(c *gin.Context) {
	var req struct {
		Notes string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerSvc.UpdateNotes(c.Request.Context(), customerdomain.UpdateNotesRequest{
		ID:    strings.TrimSpace(c.Param("id")),
		Notes: req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateCustomerState(c *gin.Context) {
	var req struct {
		State string `json:"state"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerSvc.UpdateState(c.Request.Context(), customerdomain.UpdateStateRequest{
		ID:    strings.TrimSpace(c.Param("id")),
		State: strings.TrimSpace(req.State),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// UploadCustomerImage stores an uploaded photo (house, installation,
// ID) and appends its URL to the customer record.
func (s *Server) UploadCustomerImage(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	file, err := c.FormFile("image")
	if err != nil {
		AbortWithError(c, newValidationError("image", "invalid_image", "image file is required"))
		return
	}
	if file.Size > maxImageSize {
		AbortWithError(c, newValidationError("image", "invalid_image", "image exceeds 10 MiB"))
		return
	}

	src, err := file.Open()
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := fmt.Sprintf("%s/%s%s", id, uuid.NewString(), filepath.Ext(file.Filename))
	url, err := s.store.Put(c.Request.Context(), key, contentType, src)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.customerSvc.AttachImage(c.Request.Context(), customerdomain.AttachImageRequest{
		ID:  id,
		URL: url,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteCustomer(c *gin.Context) {
	err := s.customerSvc.Delete(c.Request.Context(), customerdomain.GetCustomerRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func isCustomerValidationError(err error) bool {
	switch {
	case errors.Is(err, customerdomain.ErrInvalidName),
		errors.Is(err, customerdomain.ErrInvalidAddress),
		errors.Is(err, customerdomain.ErrInvalidPlan),
		errors.Is(err, customerdomain.ErrInvalidState),
		errors.Is(err, customerdomain.ErrInvalidCredit),
		errors.Is(err, customerdomain.ErrInvalidID):
		return true
	default:
		return false
	}
}
