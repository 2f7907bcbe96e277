package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/konektanet/konekta/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, customer *Customer) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Customer, error)
	// FindByIDForUpdate locks the customer row for the duration of the
	// surrounding transaction so reconciliations serialize per customer.
	FindByIDForUpdate(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Customer, error)
	List(ctx context.Context, db *gorm.DB, filter ListCustomerFilter, page pagination.Pagination) ([]*Customer, int64, error)
	ListByPlan(ctx context.Context, db *gorm.DB, planID snowflake.ID) ([]*Customer, error)
	Update(ctx context.Context, db *gorm.DB, customer *Customer) error
	UpdateLedger(ctx context.Context, db *gorm.DB, customer *Customer) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
