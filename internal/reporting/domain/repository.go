package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	// ListRecords returns every payment of the given year, or of all
	// years when year is zero.
	ListRecords(ctx context.Context, db *gorm.DB, year int) ([]Record, error)
	// ListSales returns filtered payment rows newest first together
	// with the sum of their amounts.
	ListSales(ctx context.Context, db *gorm.DB, filter ListSalesFilter) ([]Sale, int64, error)
	CountCustomers(ctx context.Context, db *gorm.DB) (int64, error)
	// CountDueCustomers counts active customers whose due date is on or
	// before the given day.
	CountDueCustomers(ctx context.Context, db *gorm.DB, asOf time.Time) (int64, error)
}
