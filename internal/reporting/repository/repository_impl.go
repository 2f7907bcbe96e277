package repository

import (
	"context"
	"time"

	"github.com/konektanet/konekta/internal/reporting/domain"
	"github.com/konektanet/konekta/pkg/dates"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) ListRecords(ctx context.Context, db *gorm.DB, year int) ([]domain.Record, error) {
	type row struct {
		Amount int64      `gorm:"column:amount_paid"`
		Date   dates.Date `gorm:"column:payment_date"`
	}

	stmt := db.WithContext(ctx).Table("payments").Select("amount_paid, payment_date")
	if year > 0 {
		from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		stmt = stmt.Where("payment_date >= ? AND payment_date < ?", from, from.AddDate(1, 0, 0))
	}

	var rows []row
	if err := stmt.Scan(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]domain.Record, 0, len(rows))
	for _, r := range rows {
		records = append(records, domain.Record{Amount: r.Amount, Date: r.Date})
	}
	return records, nil
}

func (r *repo) ListSales(ctx context.Context, db *gorm.DB, filter domain.ListSalesFilter) ([]domain.Sale, int64, error) {
	stmt := db.WithContext(ctx).
		Table("payments AS p").
		Select(`p.id, p.customer_id, c.fullname AS customer_name, c.branch,
		        p.amount_paid, p.months_covered, p.payment_date, p.resulting_duedate`).
		Joins("LEFT JOIN customers c ON c.id = p.customer_id")

	if filter.From != nil {
		stmt = stmt.Where("p.payment_date >= ?", *filter.From)
	}
	if filter.To != nil {
		stmt = stmt.Where("p.payment_date <= ?", *filter.To)
	}
	if filter.CustomerID != 0 {
		stmt = stmt.Where("p.customer_id = ?", filter.CustomerID)
	}
	if filter.Branch != "" {
		stmt = stmt.Where("c.branch = ?", filter.Branch)
	}

	var sales []domain.Sale
	if err := stmt.Order("p.payment_date DESC, p.id DESC").Scan(&sales).Error; err != nil {
		return nil, 0, err
	}

	var total int64
	for _, sale := range sales {
		total += sale.AmountPaid
	}
	return sales, total, nil
}

func (r *repo) CountCustomers(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Raw(`SELECT COUNT(*) FROM customers WHERE state = 'active'`).
		Scan(&count).Error
	return count, err
}

func (r *repo) CountDueCustomers(ctx context.Context, db *gorm.DB, asOf time.Time) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Raw(
			`SELECT COUNT(*) FROM customers
			 WHERE state = 'active' AND duedate IS NOT NULL AND duedate <= ?`,
			dates.FromTime(asOf),
		).
		Scan(&count).Error
	return count, err
}
