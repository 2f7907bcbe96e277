package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/konektanet/konekta/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, payment *Payment) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Payment, error)
	List(ctx context.Context, db *gorm.DB, filter ListPaymentsFilter, page pagination.Pagination) ([]*Payment, int64, error)
}
