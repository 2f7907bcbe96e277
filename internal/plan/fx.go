package plan

import (
	"github.com/konektanet/konekta/internal/plan/repository"
	"github.com/konektanet/konekta/internal/plan/service"
	"go.uber.org/fx"
)

var Module = fx.Module("plan.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
