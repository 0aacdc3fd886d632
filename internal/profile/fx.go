package profile

import (
	"github.com/quimicinter/billing/internal/profile/repository"
	"github.com/quimicinter/billing/internal/profile/service"
	"go.uber.org/fx"
)

var Module = fx.Module("profile.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewProvisioner),
	fx.Provide(service.NewValidator),
)
