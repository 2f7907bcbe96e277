package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/konektanet/konekta/internal/billing/domain"
	"github.com/konektanet/konekta/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, payment *domain.Payment) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO payments (id, customer_id, plan_id, amount_paid, months_covered,
		                       payment_date, resulting_duedate, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.ID,
		payment.CustomerID,
		payment.PlanID,
		payment.AmountPaid,
		payment.MonthsCovered,
		payment.PaymentDate,
		payment.ResultingDue,
		payment.CreatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Payment, error) {
	var payment domain.Payment
	err := db.WithContext(ctx).
		Model(&domain.Payment{}).
		Where("id = ?", id).
		Take(&payment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	if err := r.fillNames(ctx, db, []*domain.Payment{&payment}); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListPaymentsFilter, page pagination.Pagination) ([]*domain.Payment, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.Payment{})
	if filter.CustomerID != 0 {
		stmt = stmt.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Year > 0 {
		// Date-range filters stay index-friendly and portable across
		// dialects, unlike EXTRACT or strftime.
		from := time.Date(filter.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(1, 0, 0)
		if filter.Month >= 1 && filter.Month <= 12 {
			from = time.Date(filter.Year, time.Month(filter.Month), 1, 0, 0, 0, 0, time.UTC)
			to = from.AddDate(0, 1, 0)
		}
		stmt = stmt.Where("payment_date >= ? AND payment_date < ?", from, to)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payments []*domain.Payment
	err := page.Apply(stmt).
		Order("payment_date desc, id desc").
		Find(&payments).Error
	if err != nil {
		return nil, 0, err
	}

	if err := r.fillNames(ctx, db, payments); err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

func (r *repo) fillNames(ctx context.Context, db *gorm.DB, payments []*domain.Payment) error {
	if len(payments) == 0 {
		return nil
	}

	customerIDs := make([]snowflake.ID, 0, len(payments))
	planIDs := make([]snowflake.ID, 0, len(payments))
	for _, p := range payments {
		customerIDs = append(customerIDs, p.CustomerID)
		planIDs = append(planIDs, p.PlanID)
	}

	type row struct {
		ID   snowflake.ID `gorm:"column:id"`
		Name string       `gorm:"column:name"`
	}

	var customers []row
	if err := db.WithContext(ctx).Raw(
		`SELECT id, fullname AS name FROM customers WHERE id IN ?`, customerIDs,
	).Scan(&customers).Error; err != nil {
		return err
	}
	var plans []row
	if err := db.WithContext(ctx).Raw(
		`SELECT id, name FROM plans WHERE id IN ?`, planIDs,
	).Scan(&plans).Error; err != nil {
		return err
	}

	customerNames := make(map[snowflake.ID]string, len(customers))
	for _, c := range customers {
		customerNames[c.ID] = c.Name
	}
	planNames := make(map[snowflake.ID]string, len(plans))
	for _, p := range plans {
		planNames[p.ID] = p.Name
	}
	for _, p := range payments {
		p.CustomerName = customerNames[p.CustomerID]
		p.PlanName = planNames[p.PlanID]
	}
	return nil
}
