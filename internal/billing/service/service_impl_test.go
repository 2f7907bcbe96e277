package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	billingdomain "github.com/konektanet/konekta/internal/billing/domain"
	billingrepo "github.com/konektanet/konekta/internal/billing/repository"
	"github.com/konektanet/konekta/internal/clock"
	"github.com/konektanet/konekta/internal/config"
	customerdomain "github.com/konektanet/konekta/internal/customer/domain"
	customerrepo "github.com/konektanet/konekta/internal/customer/repository"
	plandomain "github.com/konektanet/konekta/internal/plan/domain"
	planrepo "github.com/konektanet/konekta/internal/plan/repository"
	"github.com/konektanet/konekta/pkg/dates"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSchema = `
CREATE TABLE plans (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	monthly_price INTEGER NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE TABLE customers (
	id INTEGER PRIMARY KEY,
	fullname TEXT NOT NULL,
	phone TEXT,
	purok TEXT,
	sitio TEXT,
	barangay TEXT NOT NULL,
	branch TEXT,
	notes TEXT,
	plan_id INTEGER NOT NULL,
	duedate DATE,
	credit INTEGER NOT NULL DEFAULT 0,
	state TEXT NOT NULL DEFAULT 'active',
	images TEXT,
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

type fixture struct {
	db       *gorm.DB
	svc      billingdomain.Service
	custRepo customerdomain.Repository
	planRepo plandomain.Repository
	genID    *snowflake.Node
	now      time.Time
}

func newFixture(t *testing.T, mode config.AnchorMode) *fixture {
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

	genID, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	now := time.Date(2025, time.April, 15, 10, 0, 0, 0, time.UTC)

	f := &fixture{
		db:       db,
		custRepo: customerrepo.Provide(),
		planRepo: planrepo.Provide(),
		genID:    genID,
		now:      now,
	}
	f.svc = New(Params{
		DB:           db,
		Log:          zap.NewNop(),
		GenID:        genID,
		Clock:        clock.Fixed(now),
		Billing:      config.StaticBillingConfig(config.BillingConfig{AnchorMode: mode}),
		Metrics:      nil,
		Repo:         billingrepo.Provide(),
		CustomerRepo: f.custRepo,
		PlanRepo:     f.planRepo,
	})
	return f
}

func (f *fixture) seedPlan(t *testing.T, price int64) plandomain.Plan {
	t.Helper()
	plan := plandomain.Plan{
		ID:           f.genID.Generate(),
		Name:         "Fiber 20Mbps",
		MonthlyPrice: price,
		CreatedAt:    f.now,
		UpdatedAt:    f.now,
	}
	if err := f.db.Exec(
		`INSERT INTO plans (id, name, monthly_price, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		plan.ID, plan.Name, plan.MonthlyPrice, plan.CreatedAt, plan.UpdatedAt,
	).Error; err != nil {
		t.Fatalf("seed plan: %v", err)
	}
	return plan
}

func (f *fixture) seedCustomer(t *testing.T, planID snowflake.ID, due *dates.Date, credit int64) customerdomain.Customer {
	t.Helper()
	customer := customerdomain.Customer{
		ID:        f.genID.Generate(),
		FullName:  "Juan Dela Cruz",
		Barangay:  "Poblacion",
		PlanID:    planID,
		DueDate:   due,
		Credit:    credit,
		State:     customerdomain.StateActive,
		CreatedAt: f.now,
		UpdatedAt: f.now,
	}
	if err := f.custRepo.Insert(context.Background(), f.db, &customer); err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return customer
}

func (f *fixture) reload(t *testing.T, id snowflake.ID) *customerdomain.Customer {
	t.Helper()
	customer, err := f.custRepo.FindByID(context.Background(), f.db, id)
	if err != nil {
		t.Fatalf("reload customer: %v", err)
	}
	if customer == nil {
		t.Fatalf("customer %s vanished", id)
	}
	return customer
}

func TestRecordPaymentUpdatesLedgerAndHistory(t *testing.T) {
	f := newFixture(t, config.AnchorDueDate)
	plan := f.seedPlan(t, 500)
	due := dates.New(2025, time.January, 1)
	customer := f.seedCustomer(t, plan.ID, &due, 200)

	paymentDate := dates.New(2025, time.January, 15)
	resp, err := f.svc.RecordPayment(context.Background(), billingdomain.RecordPaymentRequest{
		CustomerID:  customer.ID.String(),
		Amount:      350,
		PaymentDate: &paymentDate,
	})
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}

	if resp.MonthsPaid != 1 || resp.CreditRemaining != 50 || resp.CreditUsed != 150 {
		t.Fatalf("unexpected outcome: %+v", resp)
	}
	if resp.TotalEffectivePayment != 550 {
		t.Fatalf("total effective payment = %d, want 550", resp.TotalEffectivePayment)
	}
	if got, want := resp.NewDueDate.String(), "2025-02-01"; got != want {
		t.Fatalf("new due date = %s, want %s", got, want)
	}

	reloaded := f.reload(t, customer.ID)
	if reloaded.Credit != 50 {
		t.Fatalf("ledger credit = %d, want 50", reloaded.Credit)
	}
	if reloaded.DueDate == nil || reloaded.DueDate.String() != "2025-02-01" {
		t.Fatalf("ledger due date = %v, want 2025-02-01", reloaded.DueDate)
	}

	history, err := f.svc.GetPayment(context.Background(), billingdomain.GetPaymentRequest{ID: resp.HistoryID})
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	// The trail keeps the raw amount; consumed credit lives on the ledger.
	if history.AmountPaid != 350 {
		t.Fatalf("history amount = %d, want 350", history.AmountPaid)
	}
	if history.MonthsCovered != 1 {
		t.Fatalf("history months = %d, want 1", history.MonthsCovered)
	}
	if got, want := history.ResultingDue.String(), "2025-02-01"; got != want {
		t.Fatalf("history resulting due = %s, want %s", got, want)
	}
}

func TestRecordPaymentSetsDueDateForNewCustomer(t *testing.T) {
	f := newFixture(t, config.AnchorDueDate)
	plan := f.seedPlan(t, 500)
	customer := f.seedCustomer(t, plan.ID, nil, 0)

	paymentDate := dates.New(2025, time.March, 10)
	resp, err := f.svc.RecordPayment(context.Background(), billingdomain.RecordPaymentRequest{
		CustomerID:  customer.ID.String(),
		Amount:      200,
		PaymentDate: &paymentDate,
	})
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}

	if resp.MonthsPaid != 0 || resp.CreditRemaining != 200 {
		t.Fatalf("unexpected outcome: %+v", resp)
	}
	if got, want := resp.NewDueDate.String(), "2025-03-10"; got != want {
		t.Fatalf("new due date = %s, want %s", got, want)
	}

	reloaded := f.reload(t, customer.ID)
	if reloaded.DueDate == nil || reloaded.DueDate.String() != "2025-03-10" {
		t.Fatalf("ledger due date = %v, want 2025-03-10", reloaded.DueDate)
	}
}

func TestRecordPaymentMaxAnchorForLapsedCustomer(t *testing.T) {
	f := newFixture(t, config.AnchorMaxOfDueAndPayment)
	plan := f.seedPlan(t, 500)
	due := dates.New(2024, time.November, 1)
	customer := f.seedCustomer(t, plan.ID, &due, 0)

	paymentDate := dates.New(2025, time.April, 15)
	resp, err := f.svc.RecordPayment(context.Background(), billingdomain.RecordPaymentRequest{
		CustomerID:  customer.ID.String(),
		Amount:      500,
		PaymentDate: &paymentDate,
	})
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}

	if got, want := resp.NewDueDate.String(), "2025-05-15"; got != want {
		t.Fatalf("new due date = %s, want %s", got, want)
	}
}

func TestRecordPaymentDefaultsToToday(t *testing.T) {
	f := newFixture(t, config.AnchorDueDate)
	plan := f.seedPlan(t, 500)
	customer := f.seedCustomer(t, plan.ID, nil, 0)

	resp, err := f.svc.RecordPayment(context.Background(), billingdomain.RecordPaymentRequest{
		CustomerID: customer.ID.String(),
		Amount:     500,
	})
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}
	// Fixed clock is 2025-04-15.
	if got, want := resp.NewDueDate.String(), "2025-05-15"; got != want {
		t.Fatalf("new due date = %s, want %s", got, want)
	}
}

func TestRecordPaymentZeroAmountSpendsBankedCredit(t *testing.T) {
	f := newFixture(t, config.AnchorDueDate)
	plan := f.seedPlan(t, 500)
	due := dates.New(2025, time.May, 1)
	customer := f.seedCustomer(t, plan.ID, &due, 500)

	paymentDate := dates.New(2025, time.May, 2)
	resp, err := f.svc.RecordPayment(context.Background(), billingdomain.RecordPaymentRequest{
		CustomerID:  customer.ID.String(),
		Amount:      0,
		PaymentDate: &paymentDate,
	})
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}

	if resp.MonthsPaid != 1 || resp.CreditRemaining != 0 || resp.CreditUsed != 500 {
		t.Fatalf("unexpected outcome: %+v", resp)
	}
	if got, want := resp.NewDueDate.String(), "2025-06-01"; got != want {
		t.Fatalf("new due date = %s, want %s", got, want)
	}

	reloaded := f.reload(t, customer.ID)
	if reloaded.Credit != 0 {
		t.Fatalf("ledger credit = %d, want 0", reloaded.Credit)
	}

	history, err := f.svc.GetPayment(context.Background(), billingdomain.GetPaymentRequest{ID: resp.HistoryID})
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if history.AmountPaid != 0 || history.MonthsCovered != 1 {
		t.Fatalf("history: %+v", history)
	}
}

func TestRecordPaymentValidation(t *testing.T) {
	f := newFixture(t, config.AnchorDueDate)
	plan := f.seedPlan(t, 500)
	customer := f.seedCustomer(t, plan.ID, nil, 0)
	otherPlan := f.seedPlan(t, 900)

	ctx := context.Background()

	_, err := f.svc.RecordPayment(ctx, billingdomain.RecordPaymentRequest{
		CustomerID: customer.ID.String(),
		Amount:     -1,
	})
	if err != billingdomain.ErrInvalidAmount {
		t.Fatalf("negative amount: got %v, want ErrInvalidAmount", err)
	}

	_, err = f.svc.RecordPayment(ctx, billingdomain.RecordPaymentRequest{
		CustomerID: f.genID.Generate().String(),
		Amount:     500,
	})
	if err != billingdomain.ErrCustomerNotFound {
		t.Fatalf("unknown customer: got %v, want ErrCustomerNotFound", err)
	}

	_, err = f.svc.RecordPayment(ctx, billingdomain.RecordPaymentRequest{
		CustomerID: customer.ID.String(),
		PlanID:     otherPlan.ID.String(),
		Amount:     500,
	})
	if err != billingdomain.ErrPlanMismatch {
		t.Fatalf("plan mismatch: got %v, want ErrPlanMismatch", err)
	}

	_, err = f.svc.RecordPayment(ctx, billingdomain.RecordPaymentRequest{
		CustomerID: "not-a-number",
		Amount:     500,
	})
	if err != billingdomain.ErrInvalidID {
		t.Fatalf("bad id: got %v, want ErrInvalidID", err)
	}
}

func TestRecordPaymentRollsBackOnMissingPlan(t *testing.T) {
	f := newFixture(t, config.AnchorDueDate)
	plan := f.seedPlan(t, 500)
	due := dates.New(2025, time.January, 1)
	customer := f.seedCustomer(t, plan.ID, &due, 100)

	if err := f.db.Exec(`DELETE FROM plans WHERE id = ?`, plan.ID).Error; err != nil {
		t.Fatalf("delete plan: %v", err)
	}

	_, err := f.svc.RecordPayment(context.Background(), billingdomain.RecordPaymentRequest{
		CustomerID: customer.ID.String(),
		Amount:     500,
	})
	if err != billingdomain.ErrPlanNotFound {
		t.Fatalf("got %v, want ErrPlanNotFound", err)
	}

	// Nothing may land when the transaction aborts.
	reloaded := f.reload(t, customer.ID)
	if reloaded.Credit != 100 {
		t.Fatalf("ledger credit = %d, want untouched 100", reloaded.Credit)
	}
	if reloaded.DueDate == nil || reloaded.DueDate.String() != "2025-01-01" {
		t.Fatalf("ledger due date = %v, want untouched 2025-01-01", reloaded.DueDate)
	}
	var count int64
	if err := f.db.Raw(`SELECT COUNT(*) FROM payments`).Scan(&count).Error; err != nil {
		t.Fatalf("count payments: %v", err)
	}
	if count != 0 {
		t.Fatalf("payments = %d, want 0", count)
	}
}

func TestListPaymentsFiltersByCustomerAndPeriod(t *testing.T) {
	f := newFixture(t, config.AnchorDueDate)
	plan := f.seedPlan(t, 500)
	first := f.seedCustomer(t, plan.ID, nil, 0)
	second := f.seedCustomer(t, plan.ID, nil, 0)

	ctx := context.Background()
	for _, p := range []struct {
		customer snowflake.ID
		date     dates.Date
	}{
		{first.ID, dates.New(2024, time.December, 20)},
		{first.ID, dates.New(2025, time.January, 20)},
		{second.ID, dates.New(2025, time.January, 25)},
	} {
		d := p.date
		if _, err := f.svc.RecordPayment(ctx, billingdomain.RecordPaymentRequest{
			CustomerID:  p.customer.String(),
			Amount:      500,
			PaymentDate: &d,
		}); err != nil {
			t.Fatalf("record payment: %v", err)
		}
	}

	resp, err := f.svc.ListPayments(ctx, billingdomain.ListPaymentsRequest{
		CustomerID: first.ID.String(),
	})
	if err != nil {
		t.Fatalf("list by customer: %v", err)
	}
	if resp.TotalCount != 2 || len(resp.Payments) != 2 {
		t.Fatalf("customer filter: got %d/%d rows, want 2", resp.TotalCount, len(resp.Payments))
	}

	resp, err = f.svc.ListPayments(ctx, billingdomain.ListPaymentsRequest{
		Year:  2025,
		Month: 1,
	})
	if err != nil {
		t.Fatalf("list by period: %v", err)
	}
	if resp.TotalCount != 2 {
		t.Fatalf("period filter: got %d rows, want 2", resp.TotalCount)
	}
	for _, p := range resp.Payments {
		if p.PaymentDate.Year() != 2025 || p.PaymentDate.Month() != time.January {
			t.Fatalf("period filter leaked %s", p.PaymentDate)
		}
	}
}
