package invoice

import (
	"github.com/quimicinter/billing/internal/config"
	"github.com/quimicinter/billing/internal/invoice/ncf"
	"github.com/quimicinter/billing/internal/invoice/repository"
	"github.com/quimicinter/billing/internal/invoice/service"
	"go.uber.org/fx"
)

func newAllocator(cfg config.Config) *ncf.Allocator {
	return ncf.NewAllocator(cfg.NCFSeriesCode)
}

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(newAllocator),
	fx.Provide(service.New),
)
