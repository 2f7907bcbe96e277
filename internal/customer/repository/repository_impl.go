package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/konektanet/konekta/internal/customer/domain"
	"github.com/konektanet/konekta/pkg/db/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO customers (id, fullname, phone, purok, sitio, barangay, branch, notes,
		                        plan_id, duedate, credit, state, images, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		customer.ID,
		customer.FullName,
		customer.Phone,
		customer.Purok,
		customer.Sitio,
		customer.Barangay,
		customer.Branch,
		customer.Notes,
		customer.PlanID,
		customer.DueDate,
		customer.Credit,
		customer.State,
		customer.Images,
		customer.CreatedAt,
		customer.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Customer, error) {
	return r.findByID(ctx, db, id, false)
}

func (r *repo) FindByIDForUpdate(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Customer, error) {
	return r.findByID(ctx, db, id, true)
}

func (r *repo) findByID(ctx context.Context, db *gorm.DB, id snowflake.ID, lock bool) (*domain.Customer, error) {
	stmt := db.WithContext(ctx).Model(&domain.Customer{}).Where("id = ?", id)
	if lock && db.Dialector.Name() != "sqlite" {
		// sqlite has no row locks; its single-writer lock serializes anyway.
		stmt = stmt.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var customer domain.Customer
	err := stmt.Take(&customer).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListCustomerFilter, page pagination.Pagination) ([]*domain.Customer, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.Customer{})
	if filter.Name != "" {
		stmt = stmt.Where("fullname LIKE ?", "%"+filter.Name+"%")
	}
	if filter.Branch != "" {
		stmt = stmt.Where("branch = ?", filter.Branch)
	}
	if filter.State != "" {
		stmt = stmt.Where("state = ?", filter.State)
	}
	if filter.PlanID != 0 {
		stmt = stmt.Where("plan_id = ?", filter.PlanID)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var customers []*domain.Customer
	err := page.Apply(stmt).
		Order("created_at desc, id desc").
		Find(&customers).Error
	if err != nil {
		return nil, 0, err
	}

	if err := r.fillPlanNames(ctx, db, customers); err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

func (r *repo) ListByPlan(ctx context.Context, db *gorm.DB, planID snowflake.ID) ([]*domain.Customer, error) {
	var customers []*domain.Customer
	err := db.WithContext(ctx).
		Model(&domain.Customer{}).
		Where("plan_id = ?", planID).
		Order("fullname asc").
		Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Exec(
		`UPDATE customers
		 SET fullname = ?, phone = ?, purok = ?, sitio = ?, barangay = ?, branch = ?,
		     notes = ?, plan_id = ?, duedate = ?, credit = ?, state = ?, images = ?, updated_at = ?
		 WHERE id = ?`,
		customer.FullName,
		customer.Phone,
		customer.Purok,
		customer.Sitio,
		customer.Barangay,
		customer.Branch,
		customer.Notes,
		customer.PlanID,
		customer.DueDate,
		customer.Credit,
		customer.State,
		customer.Images,
		customer.UpdatedAt,
		customer.ID,
	).Error
}

// UpdateLedger writes only the reconciliation-owned columns.
func (r *repo) UpdateLedger(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Exec(
		`UPDATE customers SET duedate = ?, credit = ?, updated_at = ? WHERE id = ?`,
		customer.DueDate,
		customer.Credit,
		customer.UpdatedAt,
		customer.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM customers WHERE id = ?`, id).Error
}

func (r *repo) fillPlanNames(ctx context.Context, db *gorm.DB, customers []*domain.Customer) error {
	if len(customers) == 0 {
		return nil
	}

	ids := make([]snowflake.ID, 0, len(customers))
	for _, c := range customers {
		ids = append(ids, c.PlanID)
	}

	type planName struct {
		ID   snowflake.ID `gorm:"column:id"`
		Name string       `gorm:"column:name"`
	}
	var rows []planName
	if err := db.WithContext(ctx).Raw(
		`SELECT id, name FROM plans WHERE id IN ?`, ids,
	).Scan(&rows).Error; err != nil {
		return err
	}

	names := make(map[snowflake.ID]string, len(rows))
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	for _, c := range customers {
		c.PlanName = names[c.PlanID]
	}
	return nil
}
