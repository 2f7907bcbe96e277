package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/konektanet/konekta/internal/plan/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, plan *domain.Plan) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO plans (id, name, monthly_price, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		plan.ID,
		plan.Name,
		plan.MonthlyPrice,
		plan.CreatedAt,
		plan.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Plan, error) {
	var plan domain.Plan
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, monthly_price, created_at, updated_at
		 FROM plans WHERE id = ?`,
		id,
	).Scan(&plan).Error
	if err != nil {
		return nil, err
	}
	if plan.ID == 0 {
		return nil, nil
	}
	return &plan, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]*domain.Plan, error) {
	var plans []*domain.Plan
	err := db.WithContext(ctx).Raw(
		`SELECT p.id, p.name, p.monthly_price, p.created_at, p.updated_at,
		        COUNT(c.id) AS subscriber_count
		 FROM plans p
		 LEFT JOIN customers c ON c.plan_id = p.id
		 GROUP BY p.id, p.name, p.monthly_price, p.created_at, p.updated_at
		 ORDER BY p.monthly_price ASC`,
	).Scan(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, plan *domain.Plan) error {
	return db.WithContext(ctx).Exec(
		`UPDATE plans SET name = ?, monthly_price = ?, updated_at = ? WHERE id = ?`,
		plan.Name,
		plan.MonthlyPrice,
		plan.UpdatedAt,
		plan.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM plans WHERE id = ?`, id).Error
}
