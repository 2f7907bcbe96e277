package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/konektanet/konekta/pkg/dates"
)

type SalesRequest struct {
	// Year of zero means every year with at least one payment.
	Year int
}

type SalesResponse struct {
	Sales []YearSales `json:"sales"`
}

// ListSalesFilter narrows the sales report. Nil bounds are open; From
// and To are both inclusive.
type ListSalesFilter struct {
	From       *dates.Date
	To         *dates.Date
	CustomerID snowflake.ID
	Branch     string
}

type ListSalesRequest struct {
	Filter ListSalesFilter
}

type ListSalesResponse struct {
	Sales []Sale `json:"sales"`
	Total int64  `json:"total"`
}

type Service interface {
	// ListSales returns matching payment rows newest first, plus the
	// sum of their amounts.
	ListSales(context.Context, ListSalesRequest) (ListSalesResponse, error)
	Sales(context.Context, SalesRequest) (SalesResponse, error)
	Dashboard(context.Context) (Dashboard, error)
}

var (
	ErrInvalidYear  = errors.New("invalid_year")
	ErrInvalidRange = errors.New("invalid_range")
)
