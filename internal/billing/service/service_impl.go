package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/konektanet/konekta/internal/billing/domain"
	"github.com/konektanet/konekta/internal/clock"
	"github.com/konektanet/konekta/internal/config"
	customerdomain "github.com/konektanet/konekta/internal/customer/domain"
	"github.com/konektanet/konekta/internal/metrics"
	plandomain "github.com/konektanet/konekta/internal/plan/domain"
	"github.com/konektanet/konekta/pkg/dates"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	Billing      *config.BillingConfigHolder
	Metrics      *metrics.Metrics
	Repo         domain.Repository
	CustomerRepo customerdomain.Repository
	PlanRepo     plandomain.Repository
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	billing      *config.BillingConfigHolder
	metrics      *metrics.Metrics
	repo         domain.Repository
	customerRepo customerdomain.Repository
	planRepo     plandomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("billing.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		billing:      p.Billing,
		metrics:      p.Metrics,
		repo:         p.Repo,
		customerRepo: p.CustomerRepo,
		planRepo:     p.PlanRepo,
	}
}

// RecordPayment reconciles one payment against the customer ledger.
// The row lock, the ledger update and the history insert share one
// transaction, so concurrent payments for the same customer serialize
// and either everything lands or nothing does.
func (s *Service) RecordPayment(ctx context.Context, req domain.RecordPaymentRequest) (domain.RecordPaymentResponse, error) {
	customerID, err := snowflake.ParseString(strings.TrimSpace(req.CustomerID))
	if err != nil || customerID == 0 {
		return domain.RecordPaymentResponse{}, domain.ErrInvalidID
	}
	// Zero is allowed: banked credit alone can cover a month.
	if req.Amount < 0 {
		return domain.RecordPaymentResponse{}, domain.ErrInvalidAmount
	}

	paymentDate := dates.FromTime(s.clock.Now())
	if req.PaymentDate != nil {
		if req.PaymentDate.IsZero() {
			return domain.RecordPaymentResponse{}, domain.ErrInvalidPaymentDate
		}
		paymentDate = *req.PaymentDate
	}

	anchorMode := s.billing.Get().AnchorMode

	var resp domain.RecordPaymentResponse
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer, err := s.customerRepo.FindByIDForUpdate(ctx, tx, customerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return domain.ErrCustomerNotFound
		}

		if req.PlanID != "" {
			planID, err := snowflake.ParseString(strings.TrimSpace(req.PlanID))
			if err != nil || planID == 0 {
				return domain.ErrInvalidID
			}
			if planID != customer.PlanID {
				return domain.ErrPlanMismatch
			}
		}

		plan, err := s.planRepo.FindByID(ctx, tx, customer.PlanID)
		if err != nil {
			return err
		}
		if plan == nil {
			return domain.ErrPlanNotFound
		}
		if plan.MonthlyPrice <= 0 {
			return domain.ErrInvalidPlanPrice
		}

		outcome := domain.Reconcile(domain.ReconcileInput{
			Amount:       req.Amount,
			Credit:       customer.Credit,
			MonthlyPrice: plan.MonthlyPrice,
			DueDate:      customer.DueDate,
			PaymentDate:  paymentDate,
			AnchorMode:   anchorMode,
		})

		newDue := outcome.NewDueDate
		customer.DueDate = &newDue
		customer.Credit = outcome.NewCredit
		customer.UpdatedAt = s.clock.Now()
		if err := s.customerRepo.UpdateLedger(ctx, tx, customer); err != nil {
			return err
		}

		payment := domain.Payment{
			ID:            s.genID.Generate(),
			CustomerID:    customer.ID,
			PlanID:        plan.ID,
			AmountPaid:    req.Amount,
			MonthsCovered: outcome.MonthsCovered,
			PaymentDate:   paymentDate,
			ResultingDue:  outcome.NewDueDate,
			CreatedAt:     s.clock.Now(),
		}
		if err := s.repo.Insert(ctx, tx, &payment); err != nil {
			return err
		}

		resp = domain.RecordPaymentResponse{
			HistoryID:             payment.ID.String(),
			MonthsPaid:            outcome.MonthsCovered,
			CreditRemaining:       outcome.NewCredit,
			CreditUsed:            outcome.CreditUsed,
			TotalEffectivePayment: outcome.TotalPayable,
			NewDueDate:            outcome.NewDueDate,
		}
		return nil
	})
	if err != nil {
		s.metrics.RecordReconciliation("error", 0)
		return domain.RecordPaymentResponse{}, err
	}

	s.metrics.RecordReconciliation("ok", resp.MonthsPaid)
	s.log.Info("payment reconciled",
		zap.String("customer_id", customerID.String()),
		zap.Int64("amount_paid", req.Amount),
		zap.Int64("months_paid", resp.MonthsPaid),
		zap.Int64("credit_remaining", resp.CreditRemaining),
		zap.String("new_duedate", resp.NewDueDate.String()),
	)
	return resp, nil
}

func (s *Service) ListPayments(ctx context.Context, req domain.ListPaymentsRequest) (domain.ListPaymentsResponse, error) {
	filter := domain.ListPaymentsFilter{
		Year:  req.Year,
		Month: req.Month,
	}
	if raw := strings.TrimSpace(req.CustomerID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil || id == 0 {
			return domain.ListPaymentsResponse{}, domain.ErrInvalidID
		}
		filter.CustomerID = id
	}

	items, total, err := s.repo.List(ctx, s.db, filter, req.Pagination)
	if err != nil {
		return domain.ListPaymentsResponse{}, err
	}

	payments := make([]domain.Payment, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		payments = append(payments, *item)
	}

	return domain.ListPaymentsResponse{
		PageInfo: req.Pagination.Info(total),
		Payments: payments,
	}, nil
}

func (s *Service) GetPayment(ctx context.Context, req domain.GetPaymentRequest) (domain.Payment, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.Payment{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Payment{}, err
	}
	if item == nil {
		return domain.Payment{}, domain.ErrNotFound
	}
	return *item, nil
}
