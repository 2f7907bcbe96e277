package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/konektanet/konekta/internal/clock"
	"github.com/konektanet/konekta/internal/customer/domain"
	plandomain "github.com/konektanet/konekta/internal/plan/domain"
	"github.com/konektanet/konekta/pkg/dates"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	PlanRepo plandomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	planRepo plandomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("customer.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		planRepo: p.PlanRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCustomerRequest) (domain.Customer, error) {
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return domain.Customer{}, domain.ErrInvalidName
	}
	barangay := strings.TrimSpace(req.Barangay)
	if barangay == "" {
		return domain.Customer{}, domain.ErrInvalidAddress
	}

	planID, err := snowflake.ParseString(strings.TrimSpace(req.PlanID))
	if err != nil || planID == 0 {
		return domain.Customer{}, domain.ErrInvalidPlan
	}
	plan, err := s.planRepo.FindByID(ctx, s.db, planID)
	if err != nil {
		return domain.Customer{}, err
	}
	if plan == nil {
		return domain.Customer{}, domain.ErrInvalidPlan
	}

	now := s.clock.Now()

	// New subscribers owe their first month one month after signup unless
	// the operator supplies an explicit starting due date.
	dueDate := req.DueDate
	if dueDate == nil {
		d := dates.FromTime(now).AddMonths(1)
		dueDate = &d
	}

	customer := domain.Customer{
		ID:        s.genID.Generate(),
		FullName:  fullName,
		Phone:     strings.TrimSpace(req.Phone),
		Purok:     strings.TrimSpace(req.Purok),
		Sitio:     strings.TrimSpace(req.Sitio),
		Barangay:  barangay,
		Branch:    strings.TrimSpace(req.Branch),
		Notes:     strings.TrimSpace(req.Notes),
		PlanID:    planID,
		DueDate:   dueDate,
		Credit:    0,
		State:     domain.StateActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &customer); err != nil {
		return domain.Customer{}, err
	}

	customer.PlanName = plan.Name
	s.log.Info("customer created",
		zap.String("customer_id", customer.ID.String()),
		zap.String("plan_id", planID.String()),
	)
	return customer, nil
}

func (s *Service) List(ctx context.Context, req domain.ListCustomerRequest) (domain.ListCustomerResponse, error) {
	if req.State != "" && !validState(req.State) {
		return domain.ListCustomerResponse{}, domain.ErrInvalidState
	}

	filter := domain.ListCustomerFilter{
		Name:   strings.TrimSpace(req.Name),
		Branch: strings.TrimSpace(req.Branch),
		State:  req.State,
	}
	if raw := strings.TrimSpace(req.PlanID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil || id == 0 {
			return domain.ListCustomerResponse{}, domain.ErrInvalidPlan
		}
		filter.PlanID = id
	}

	items, total, err := s.repo.List(ctx, s.db, filter, req.Pagination)
	if err != nil {
		return domain.ListCustomerResponse{}, err
	}

	customers := make([]domain.Customer, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		customers = append(customers, *item)
	}

	return domain.ListCustomerResponse{
		PageInfo:  req.Pagination.Info(total),
		Customers: customers,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetCustomerRequest) (domain.Customer, error) {
	item, err := s.find(ctx, req.ID)
	if err != nil {
		return domain.Customer{}, err
	}
	return *item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateCustomerRequest) (domain.Customer, error) {
	item, err := s.find(ctx, req.ID)
	if err != nil {
		return domain.Customer{}, err
	}

	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return domain.Customer{}, domain.ErrInvalidName
	}
	barangay := strings.TrimSpace(req.Barangay)
	if barangay == "" {
		return domain.Customer{}, domain.ErrInvalidAddress
	}

	planID, err := snowflake.ParseString(strings.TrimSpace(req.PlanID))
	if err != nil || planID == 0 {
		return domain.Customer{}, domain.ErrInvalidPlan
	}
	if planID != item.PlanID {
		plan, err := s.planRepo.FindByID(ctx, s.db, planID)
		if err != nil {
			return domain.Customer{}, err
		}
		if plan == nil {
			return domain.Customer{}, domain.ErrInvalidPlan
		}
	}

	item.FullName = fullName
	item.Phone = strings.TrimSpace(req.Phone)
	item.Purok = strings.TrimSpace(req.Purok)
	item.Sitio = strings.TrimSpace(req.Sitio)
	item.Barangay = barangay
	item.Branch = strings.TrimSpace(req.Branch)
	item.Notes = strings.TrimSpace(req.Notes)
	item.PlanID = planID

	if req.DueDate != nil {
		item.DueDate = req.DueDate
	}
	if req.Credit != nil {
		if *req.Credit < 0 {
			return domain.Customer{}, domain.ErrInvalidCredit
		}
		item.Credit = *req.Credit
	}

	item.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return domain.Customer{}, err
	}
	return *item, nil
}

func (s *Service) UpdateNotes(ctx context.Context, req domain.UpdateNotesRequest) (domain.Customer, error) {
	item, err := s.find(ctx, req.ID)
	if err != nil {
		return domain.Customer{}, err
	}

	item.Notes = strings.TrimSpace(req.Notes)
	item.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return domain.Customer{}, err
	}
	return *item, nil
}

func (s *Service) UpdateState(ctx context.Context, req domain.UpdateStateRequest) (domain.Customer, error) {
	if !validState(req.State) {
		return domain.Customer{}, domain.ErrInvalidState
	}

	item, err := s.find(ctx, req.ID)
	if err != nil {
		return domain.Customer{}, err
	}

	item.State = domain.State(req.State)
	item.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return domain.Customer{}, err
	}
	return *item, nil
}

func (s *Service) AttachImage(ctx context.Context, req domain.AttachImageRequest) (domain.Customer, error) {
	item, err := s.find(ctx, req.ID)
	if err != nil {
		return domain.Customer{}, err
	}

	var urls []string
	if len(item.Images) > 0 {
		if err := json.Unmarshal(item.Images, &urls); err != nil {
			return domain.Customer{}, err
		}
	}
	urls = append(urls, req.URL)

	raw, err := json.Marshal(urls)
	if err != nil {
		return domain.Customer{}, err
	}
	item.Images = raw
	item.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return domain.Customer{}, err
	}
	return *item, nil
}

func (s *Service) Delete(ctx context.Context, req domain.GetCustomerRequest) error {
	item, err := s.find(ctx, req.ID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, item.ID)
}

func (s *Service) find(ctx context.Context, rawID string) (*domain.Customer, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func validState(value string) bool {
	switch domain.State(value) {
	case domain.StateActive, domain.StateArchived:
		return true
	}
	return false
}
