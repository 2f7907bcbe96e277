package reporting

import (
	"github.com/konektanet/konekta/internal/reporting/repository"
	"github.com/konektanet/konekta/internal/reporting/service"
	"go.uber.org/fx"
)

var Module = fx.Module("reporting.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
