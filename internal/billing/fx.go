package billing

import (
	"github.com/konektanet/konekta/internal/billing/repository"
	"github.com/konektanet/konekta/internal/billing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("billing.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
