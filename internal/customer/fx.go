package customer

import (
	"github.com/quimicinter/billing/internal/customer/repository"
	"github.com/quimicinter/billing/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
