package domain

import (
	"context"
	"errors"

	customerdomain "github.com/konektanet/konekta/internal/customer/domain"
)

type CreatePlanRequest struct {
	Name         string
	MonthlyPrice int64
}

type UpdatePlanRequest struct {
	ID           string
	Name         string
	MonthlyPrice int64
}

type GetPlanRequest struct {
	ID string
}

type Service interface {
	Create(context.Context, CreatePlanRequest) (Plan, error)
	List(context.Context) ([]Plan, error)
	GetByID(context.Context, GetPlanRequest) (Plan, error)
	// Subscribers lists the customers currently on the plan, ordered
	// by full name.
	Subscribers(context.Context, GetPlanRequest) ([]*customerdomain.Customer, error)
	Update(context.Context, UpdatePlanRequest) (Plan, error)
	Delete(context.Context, GetPlanRequest) error
}

var (
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidPrice = errors.New("invalid_price")
	ErrInvalidID    = errors.New("invalid_id")
	ErrNotFound     = errors.New("not_found")
)
