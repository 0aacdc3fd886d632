package product

import (
	"github.com/quimicinter/billing/internal/product/repository"
	"github.com/quimicinter/billing/internal/product/service"
	"go.uber.org/fx"
)

var Module = fx.Module("product.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
