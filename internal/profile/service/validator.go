package service

import (
	"context"
	"strings"

	"github.com/quimicinter/billing/internal/profile/domain"
	"github.com/quimicinter/billing/internal/tenant"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ValidatorParam struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Registry *tenant.Registry
	Repo     domain.Repository
}

type Validator struct {
	db       *gorm.DB
	log      *zap.Logger
	registry *tenant.Registry
	repo     domain.Repository
}

func NewValidator(p ValidatorParam) domain.Validator {
	return &Validator{
		db:       p.DB,
		log:      p.Log.Named("profile.validator"),
		registry: p.Registry,
		repo:     p.Repo,
	}
}

// ValidateAccess reports whether an identity may act within the requested
// schema. Administrators pass for any schema; regular users only for their
// own. No profile means no access. Query failures are logged and collapse
// to false so callers never have to distinguish "denied" from "error".
func (v *Validator) ValidateAccess(ctx context.Context, userID, schemaName string) bool {
	allowed, err := v.validate(ctx, userID, schemaName)
	if err != nil {
		v.log.Warn("access validation failed, denying",
			zap.String("user_id", userID),
			zap.String("schema", schemaName),
			zap.Error(err),
		)
		return false
	}
	return allowed
}

func (v *Validator) validate(ctx context.Context, userID, schemaName string) (bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false, nil
	}
	requested := tenant.Normalize(schemaName)
	if !v.registry.Contains(requested) {
		return false, nil
	}

	// A row in the requested schema settles it, whatever the role.
	profile, err := v.repo.FindByUserAndSchema(ctx, v.db, userID, requested)
	if err != nil {
		return false, err
	}
	if profile != nil {
		return true, nil
	}

	// Otherwise any row suffices: an administrator's role is identical
	// across every schema replica, and a regular user has exactly one row.
	profile, err = v.repo.FindAnyByUser(ctx, v.db, userID)
	if err != nil {
		return false, err
	}
	if profile == nil {
		return false, nil
	}
	return profile.Role == domain.RoleAdmin, nil
}
