package customer

import (
	"github.com/konektanet/konekta/internal/customer/repository"
	"github.com/konektanet/konekta/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
