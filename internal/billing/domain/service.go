package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/konektanet/konekta/pkg/dates"
	"github.com/konektanet/konekta/pkg/db/pagination"
)

type RecordPaymentRequest struct {
	CustomerID string
	// PlanID is optional; when present it must match the customer's
	// current plan.
	PlanID string
	Amount int64
	// PaymentDate defaults to today when nil.
	PaymentDate *dates.Date
}

type RecordPaymentResponse struct {
	HistoryID             string     `json:"history_id"`
	MonthsPaid            int64      `json:"months_paid"`
	CreditRemaining       int64      `json:"credit_remaining"`
	CreditUsed            int64      `json:"credit_used"`
	TotalEffectivePayment int64      `json:"total_effective_payment"`
	NewDueDate            dates.Date `json:"new_due_date"`
}

type ListPaymentsRequest struct {
	pagination.Pagination
	CustomerID string
	Year       int
	Month      int
}

type ListPaymentsFilter struct {
	CustomerID snowflake.ID
	Year       int
	Month      int
}

type ListPaymentsResponse struct {
	pagination.PageInfo
	Payments []Payment `json:"payments"`
}

type GetPaymentRequest struct {
	ID string
}

type Service interface {
	RecordPayment(context.Context, RecordPaymentRequest) (RecordPaymentResponse, error)
	ListPayments(context.Context, ListPaymentsRequest) (ListPaymentsResponse, error)
	GetPayment(context.Context, GetPaymentRequest) (Payment, error)
}

var (
	ErrCustomerNotFound   = errors.New("customer_not_found")
	ErrPlanNotFound       = errors.New("plan_not_found")
	ErrPlanMismatch       = errors.New("plan_mismatch")
	ErrInvalidAmount      = errors.New("invalid_amount")
	ErrInvalidPlanPrice   = errors.New("invalid_plan_price")
	ErrInvalidPaymentDate = errors.New("invalid_payment_date")
	ErrInvalidID          = errors.New("invalid_id")
	ErrNotFound           = errors.New("not_found")
)
