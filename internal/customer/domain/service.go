package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/konektanet/konekta/pkg/dates"
	"github.com/konektanet/konekta/pkg/db/pagination"
)

type CreateCustomerRequest struct {
	FullName string
	Phone    string
	Purok    string
	Sitio    string
	Barangay string
	Branch   string
	Notes    string
	PlanID   string
	DueDate  *dates.Date
}

type UpdateCustomerRequest struct {
	ID       string
	FullName string
	Phone    string
	Purok    string
	Sitio    string
	Barangay string
	Branch   string
	Notes    string
	PlanID   string
	// DueDate and Credit are administrative overrides; nil leaves the
	// ledger untouched.
	DueDate *dates.Date
	Credit  *int64
}

type ListCustomerRequest struct {
	pagination.Pagination
	Name   string
	Branch string
	State  string
	PlanID string
}

type ListCustomerFilter struct {
	Name   string
	Branch string
	State  string
	PlanID snowflake.ID
}

type ListCustomerResponse struct {
	pagination.PageInfo
	Customers []Customer `json:"customers"`
}

type GetCustomerRequest struct {
	ID string
}

type UpdateNotesRequest struct {
	ID    string
	Notes string
}

type UpdateStateRequest struct {
	ID    string
	State string
}

type AttachImageRequest struct {
	ID  string
	URL string
}

type Service interface {
	Create(context.Context, CreateCustomerRequest) (Customer, error)
	List(context.Context, ListCustomerRequest) (ListCustomerResponse, error)
	GetByID(context.Context, GetCustomerRequest) (Customer, error)
	Update(context.Context, UpdateCustomerRequest) (Customer, error)
	UpdateNotes(context.Context, UpdateNotesRequest) (Customer, error)
	UpdateState(context.Context, UpdateStateRequest) (Customer, error)
	AttachImage(context.Context, AttachImageRequest) (Customer, error)
	Delete(context.Context, GetCustomerRequest) error
}

var (
	ErrInvalidName    = errors.New("invalid_fullname")
	ErrInvalidAddress = errors.New("invalid_barangay")
	ErrInvalidPlan    = errors.New("invalid_plan_id")
	ErrInvalidState   = errors.New("invalid_state")
	ErrInvalidCredit  = errors.New("invalid_credit")
	ErrInvalidID      = errors.New("invalid_id")
	ErrNotFound       = errors.New("not_found")
)
