package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/konektanet/konekta/internal/cache"
	"github.com/konektanet/konekta/internal/clock"
	"github.com/konektanet/konekta/internal/reporting/domain"
	"github.com/konektanet/konekta/internal/reporting/repository"
	"github.com/konektanet/konekta/pkg/dates"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSchema = `
CREATE TABLE customers (
	id INTEGER PRIMARY KEY,
	fullname TEXT NOT NULL,
	barangay TEXT NOT NULL,
	branch TEXT NOT NULL DEFAULT '',
	plan_id INTEGER NOT NULL,
	duedate DATE,
	credit INTEGER NOT NULL DEFAULT 0,
	state TEXT NOT NULL DEFAULT 'active',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE TABLE payments (
	id INTEGER PRIMARY KEY,
	customer_id INTEGER NOT NULL,
	plan_id INTEGER NOT NULL,
	amount_paid INTEGER NOT NULL,
	months_covered INTEGER NOT NULL,
	payment_date DATE NOT NULL,
	resulting_duedate DATE NOT NULL,
	created_at DATETIME NOT NULL
);
`

func newService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Exec(testSchema).Error; err != nil {
		t.Fatalf("create schema: %v", err)
	}

	now := time.Date(2025, time.August, 28, 12, 0, 0, 0, time.UTC)
	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		Clock: clock.Fixed(now),
		Cache: cache.NewMemory(),
		Repo:  repository.Provide(),
	})
	return svc, db
}

func seedPayment(t *testing.T, db *gorm.DB, id, customerID, amount int64, date dates.Date) {
	t.Helper()
	if err := db.Exec(
		`INSERT INTO payments (id, customer_id, plan_id, amount_paid, months_covered,
		                       payment_date, resulting_duedate, created_at)
		 VALUES (?, ?, 1, ?, 1, ?, ?, ?)`,
		id, customerID, amount, date, date, time.Now().UTC(),
	).Error; err != nil {
		t.Fatalf("seed payment: %v", err)
	}
}

func seedCustomer(t *testing.T, db *gorm.DB, id int64, name, branch string, due *dates.Date, state string) {
	t.Helper()
	now := time.Now().UTC()
	if err := db.Exec(
		`INSERT INTO customers (id, fullname, barangay, branch, plan_id, duedate, state, created_at, updated_at)
		 VALUES (?, ?, 'Poblacion', ?, 1, ?, ?, ?, ?)`,
		id, name, branch, due, state, now, now,
	).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
}

func TestSalesGroupsByYearNewestFirst(t *testing.T) {
	svc, db := newService(t)

	seedPayment(t, db, 1, 1, 50000, dates.New(2024, time.December, 20))
	seedPayment(t, db, 2, 1, 100000, dates.New(2025, time.January, 5))
	seedPayment(t, db, 3, 1, 75000, dates.New(2025, time.August, 14))

	resp, err := svc.Sales(context.Background(), domain.SalesRequest{})
	if err != nil {
		t.Fatalf("sales: %v", err)
	}
	if len(resp.Sales) != 2 {
		t.Fatalf("got %d years, want 2", len(resp.Sales))
	}
	if resp.Sales[0].Year != 2025 || resp.Sales[1].Year != 2024 {
		t.Fatalf("year order: %d, %d", resp.Sales[0].Year, resp.Sales[1].Year)
	}
	if resp.Sales[0].YearlyTotal != 175000 {
		t.Fatalf("2025 total = %d, want 175000", resp.Sales[0].YearlyTotal)
	}
	if resp.Sales[0].Quarterly[2] != 75000 {
		t.Fatalf("2025 Q3 = %d, want 75000", resp.Sales[0].Quarterly[2])
	}
}

func TestSalesServesCachedAggregate(t *testing.T) {
	svc, db := newService(t)

	seedPayment(t, db, 1, 1, 50000, dates.New(2025, time.March, 1))

	first, err := svc.Sales(context.Background(), domain.SalesRequest{Year: 2025})
	if err != nil {
		t.Fatalf("first sales: %v", err)
	}

	// Payments landing inside the cache window do not show until expiry.
	seedPayment(t, db, 2, 1, 50000, dates.New(2025, time.March, 2))

	second, err := svc.Sales(context.Background(), domain.SalesRequest{Year: 2025})
	if err != nil {
		t.Fatalf("second sales: %v", err)
	}
	if second.Sales[0].YearlyTotal != first.Sales[0].YearlyTotal {
		t.Fatalf("cached total changed: %d vs %d", second.Sales[0].YearlyTotal, first.Sales[0].YearlyTotal)
	}
}

func TestSalesEmptyYear(t *testing.T) {
	svc, _ := newService(t)

	resp, err := svc.Sales(context.Background(), domain.SalesRequest{Year: 2030})
	if err != nil {
		t.Fatalf("sales: %v", err)
	}
	if len(resp.Sales) != 1 || resp.Sales[0].Year != 2030 || resp.Sales[0].YearlyTotal != 0 {
		t.Fatalf("empty year: %+v", resp.Sales)
	}

	if _, err := svc.Sales(context.Background(), domain.SalesRequest{Year: -1}); err != domain.ErrInvalidYear {
		t.Fatalf("negative year: got %v, want ErrInvalidYear", err)
	}
}

func TestListSalesFiltersAndTotal(t *testing.T) {
	svc, db := newService(t)

	seedCustomer(t, db, 1, "Abad", "North", nil, "active")
	seedCustomer(t, db, 2, "Reyes", "South", nil, "active")

	seedPayment(t, db, 1, 1, 50000, dates.New(2025, time.February, 10))
	seedPayment(t, db, 2, 1, 80000, dates.New(2025, time.March, 5))
	seedPayment(t, db, 3, 2, 120000, dates.New(2025, time.March, 20))

	ctx := context.Background()

	all, err := svc.ListSales(ctx, domain.ListSalesRequest{})
	if err != nil {
		t.Fatalf("list sales: %v", err)
	}
	if len(all.Sales) != 3 || all.Total != 250000 {
		t.Fatalf("all: %d rows total %d", len(all.Sales), all.Total)
	}
	// Newest first.
	if all.Sales[0].AmountPaid != 120000 || all.Sales[2].AmountPaid != 50000 {
		t.Fatalf("row order: %+v", all.Sales)
	}
	if all.Sales[0].CustomerName != "Reyes" || all.Sales[0].Branch != "South" {
		t.Fatalf("joined fields: %+v", all.Sales[0])
	}

	from := dates.New(2025, time.March, 1)
	to := dates.New(2025, time.March, 31)
	march, err := svc.ListSales(ctx, domain.ListSalesRequest{
		Filter: domain.ListSalesFilter{From: &from, To: &to},
	})
	if err != nil {
		t.Fatalf("march: %v", err)
	}
	if len(march.Sales) != 2 || march.Total != 200000 {
		t.Fatalf("march: %d rows total %d", len(march.Sales), march.Total)
	}

	byCustomer, err := svc.ListSales(ctx, domain.ListSalesRequest{
		Filter: domain.ListSalesFilter{CustomerID: snowflake.ID(1)},
	})
	if err != nil {
		t.Fatalf("by customer: %v", err)
	}
	if len(byCustomer.Sales) != 2 || byCustomer.Total != 130000 {
		t.Fatalf("by customer: %d rows total %d", len(byCustomer.Sales), byCustomer.Total)
	}

	byBranch, err := svc.ListSales(ctx, domain.ListSalesRequest{
		Filter: domain.ListSalesFilter{Branch: "South"},
	})
	if err != nil {
		t.Fatalf("by branch: %v", err)
	}
	if len(byBranch.Sales) != 1 || byBranch.Total != 120000 {
		t.Fatalf("by branch: %d rows total %d", len(byBranch.Sales), byBranch.Total)
	}

	if _, err := svc.ListSales(ctx, domain.ListSalesRequest{
		Filter: domain.ListSalesFilter{From: &to, To: &from},
	}); err != domain.ErrInvalidRange {
		t.Fatalf("inverted range: got %v, want ErrInvalidRange", err)
	}
}

func TestDashboardCounts(t *testing.T) {
	svc, db := newService(t)

	// Fixed clock is 2025-08-28.
	overdue := dates.New(2025, time.August, 1)
	current := dates.New(2025, time.September, 15)
	seedCustomer(t, db, 1, "Abad", "", &overdue, "active")
	seedCustomer(t, db, 2, "Reyes", "", &current, "active")
	seedCustomer(t, db, 3, "Santos", "", nil, "active")
	seedCustomer(t, db, 4, "Tan", "", &overdue, "archived")

	seedPayment(t, db, 1, 1, 50000, dates.New(2025, time.February, 10))
	seedPayment(t, db, 2, 1, 30000, dates.New(2024, time.June, 10))

	dash, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dash.TotalCustomers != 3 {
		t.Fatalf("total customers = %d, want 3", dash.TotalCustomers)
	}
	if dash.DueCustomers != 1 {
		t.Fatalf("due customers = %d, want 1", dash.DueCustomers)
	}
	if len(dash.Sales) != 2 {
		t.Fatalf("got %d sales years, want 2", len(dash.Sales))
	}
	if dash.Sales[0].Year != 2025 || dash.Sales[0].YearlyTotal != 50000 {
		t.Fatalf("dashboard sales: %+v", dash.Sales[0])
	}
	if dash.Sales[1].Year != 2024 || dash.Sales[1].YearlyTotal != 30000 {
		t.Fatalf("dashboard sales: %+v", dash.Sales[1])
	}
}
