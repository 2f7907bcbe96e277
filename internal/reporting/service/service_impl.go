package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/konektanet/konekta/internal/cache"
	"github.com/konektanet/konekta/internal/clock"
	"github.com/konektanet/konekta/internal/reporting/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Aggregates are recomputed at most once a minute; the dashboard polls
// far more often than payments land.
const cacheTTL = time.Minute

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Cache cache.Cache
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	cache cache.Cache
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("reporting.service"),
		clock: p.Clock,
		cache: p.Cache,
		repo:  p.Repo,
	}
}

func (s *Service) ListSales(ctx context.Context, req domain.ListSalesRequest) (domain.ListSalesResponse, error) {
	f := req.Filter
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return domain.ListSalesResponse{}, domain.ErrInvalidRange
	}

	sales, total, err := s.repo.ListSales(ctx, s.db, f)
	if err != nil {
		return domain.ListSalesResponse{}, err
	}
	if sales == nil {
		sales = []domain.Sale{}
	}
	return domain.ListSalesResponse{Sales: sales, Total: total}, nil
}

func (s *Service) Sales(ctx context.Context, req domain.SalesRequest) (domain.SalesResponse, error) {
	if req.Year < 0 {
		return domain.SalesResponse{}, domain.ErrInvalidYear
	}

	key := fmt.Sprintf("sales:%d", req.Year)
	if cached, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var resp domain.SalesResponse
		if err := json.Unmarshal(cached, &resp); err == nil {
			return resp, nil
		}
	}

	records, err := s.repo.ListRecords(ctx, s.db, req.Year)
	if err != nil {
		return domain.SalesResponse{}, err
	}

	sales := domain.Aggregate(records)
	if req.Year > 0 && len(sales) == 0 {
		sales = []domain.YearSales{{Year: req.Year}}
	}
	resp := domain.SalesResponse{Sales: sales}

	if raw, err := json.Marshal(resp); err == nil {
		if err := s.cache.Set(ctx, key, raw, cacheTTL); err != nil {
			s.log.Warn("sales cache write failed", zap.Error(err))
		}
	}
	return resp, nil
}

func (s *Service) Dashboard(ctx context.Context) (domain.Dashboard, error) {
	now := s.clock.Now()

	sales, err := s.Sales(ctx, domain.SalesRequest{})
	if err != nil {
		return domain.Dashboard{}, err
	}

	total, err := s.repo.CountCustomers(ctx, s.db)
	if err != nil {
		return domain.Dashboard{}, err
	}
	due, err := s.repo.CountDueCustomers(ctx, s.db, now)
	if err != nil {
		return domain.Dashboard{}, err
	}

	return domain.Dashboard{
		Sales:          sales.Sales,
		TotalCustomers: total,
		DueCustomers:   due,
	}, nil
}
