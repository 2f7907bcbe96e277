package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/konektanet/konekta/internal/billing"
	billingdomain "github.com/konektanet/konekta/internal/billing/domain"
	"github.com/konektanet/konekta/internal/cache"
	"github.com/konektanet/konekta/internal/clock"
	"github.com/konektanet/konekta/internal/config"
	"github.com/konektanet/konekta/internal/customer"
	customerdomain "github.com/konektanet/konekta/internal/customer/domain"
	"github.com/konektanet/konekta/internal/metrics"
	"github.com/konektanet/konekta/internal/plan"
	plandomain "github.com/konektanet/konekta/internal/plan/domain"
	"github.com/konektanet/konekta/internal/reporting"
	reportingdomain "github.com/konektanet/konekta/internal/reporting/domain"
	"github.com/konektanet/konekta/internal/storage"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	clock.Module,
	cache.Module,
	metrics.Module,
	storage.Module,
	fx.Provide(registerGin),
	plan.Module,
	customer.Module,
	billing.Module,
	reporting.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(metrics.GinMiddleware(m))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger, m *metrics.Metrics) *gin.Engine {
	return NewEngine(log, m)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	db           *gorm.DB
	planSvc      plandomain.Service
	customerSvc  customerdomain.Service
	billingSvc   billingdomain.Service
	reportingSvc reportingdomain.Service
	store        storage.Store
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	DB           *gorm.DB
	PlanSvc      plandomain.Service
	CustomerSvc  customerdomain.Service
	BillingSvc   billingdomain.Service
	ReportingSvc reportingdomain.Service
	Store        storage.Store
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		planSvc:      p.PlanSvc,
		customerSvc:  p.CustomerSvc,
		billingSvc:   p.BillingSvc,
		reportingSvc: p.ReportingSvc,
		store:        p.Store,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Plans --------
	api.GET("/plans", s.ListPlans)
	api.POST("/plans", s.CreatePlan)
	api.GET("/plans/:id", s.GetPlanByID)
	api.GET("/plans/:id/subscribers", s.GetPlanSubscribers)
	api.PUT("/plans/:id", s.UpdatePlan)
	api.DELETE("/plans/:id", s.DeletePlan)

	// -------- Customers --------
	api.GET("/customers", s.ListCustomers)
	api.POST("/customers", s.CreateCustomer)
	api.GET("/customers/:id", s.GetCustomerByID)
	api.PUT("/customers/:id", s.UpdateCustomer)
	api.PATCH("/customers/:id/notes", s.UpdateCustomerNotes)
	api.PATCH("/customers/:id/state", s.UpdateCustomerState)
	api.POST("/customers/:id/images", s.UploadCustomerImage)
	api.DELETE("/customers/:id", s.DeleteCustomer)

	// -------- Payments --------
	api.POST("/payments", s.RecordPayment)
	api.GET("/payments", s.ListPayments)
	api.GET("/payments/:id", s.GetPaymentByID)
	api.GET("/payments/:id/receipt", s.GetPaymentReceipt)
	api.GET("/customers/:id/payments", s.ListCustomerPayments)

	// -------- Reporting --------
	api.GET("/sales", s.ListSales)
	api.GET("/sales/aggregate", s.GetSalesAggregate)
	api.GET("/dashboard", s.GetDashboard)
}
