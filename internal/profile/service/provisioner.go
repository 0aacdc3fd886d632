package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/quimicinter/billing/internal/clock"
	"github.com/quimicinter/billing/internal/profile/domain"
	"github.com/quimicinter/billing/internal/tenant"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProvisionerParam struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Registry *tenant.Registry
	Repo     domain.Repository
	Clock    clock.Clock
}

type Provisioner struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	registry *tenant.Registry
	repo     domain.Repository
	clock    clock.Clock
}

func NewProvisioner(p ProvisionerParam) domain.Provisioner {
	return &Provisioner{
		db:       p.DB,
		log:      p.Log.Named("profile.provisioner"),
		genID:    p.GenID,
		registry: p.Registry,
		repo:     p.Repo,
		clock:    p.Clock,
	}
}

// Provision derives the target schema and role for a new identity, upserts
// its profile, and replicates administrator profiles into every other
// registry schema. All writes share one transaction.
func (s *Provisioner) Provision(ctx context.Context, event domain.IdentityCreated) (*domain.ProvisionResult, error) {
	userID := strings.TrimSpace(event.UserID)
	if userID == "" {
		return nil, domain.ErrInvalidUserID
	}
	email := strings.TrimSpace(strings.ToLower(event.Email))
	if email == "" {
		return nil, domain.ErrInvalidEmail
	}

	schemaName := s.resolveSchema(event)

	var result *domain.ProvisionResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		role, err := s.resolveRole(ctx, tx, event, schemaName)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		fullName := strings.TrimSpace(event.MetadataFullName())
		if fullName == "" {
			fullName = defaultFullName(email)
		}

		if err := s.repo.Upsert(ctx, tx, &domain.Profile{
			ID:         s.genID.Generate(),
			UserID:     userID,
			SchemaName: schemaName,
			Email:      email,
			FullName:   fullName,
			Role:       role,
			Status:     domain.StatusActive,
			CreatedAt:  now,
			UpdatedAt:  now,
		}); err != nil {
			return err
		}

		replicated := make([]string, 0)
		if role == domain.RoleAdmin {
			for _, other := range s.registry.ReplicationSet() {
				if other == schemaName {
					continue
				}
				if err := s.repo.Upsert(ctx, tx, &domain.Profile{
					ID:         s.genID.Generate(),
					UserID:     userID,
					SchemaName: other,
					Email:      email,
					FullName:   fullName,
					Role:       domain.RoleAdmin,
					Status:     domain.StatusActive,
					CreatedAt:  now,
					UpdatedAt:  now,
				}); err != nil {
					return err
				}
				replicated = append(replicated, other)
			}
		}

		result = &domain.ProvisionResult{
			SchemaName: schemaName,
			Role:       role,
			Replicated: replicated,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("identity provisioned",
		zap.String("user_id", userID),
		zap.String("schema", result.SchemaName),
		zap.String("role", string(result.Role)),
		zap.Strings("replicated", result.Replicated),
	)

	return result, nil
}

// resolveSchema prefers explicit metadata, then the inbound header, then the
// default schema. Unknown names fall back to the default.
func (s *Provisioner) resolveSchema(event domain.IdentityCreated) string {
	if meta := strings.TrimSpace(event.MetadataSchema()); meta != "" {
		return s.registry.Resolve(meta)
	}
	if header := strings.TrimSpace(event.HeaderSchema); header != "" {
		return s.registry.Resolve(header)
	}
	return s.registry.Default()
}

// resolveRole prefers explicit metadata. Without it, the first identity
// provisioned into an empty schema becomes admin; everyone after is a
// regular user. The bootstrap rule grants elevated privilege to whoever
// registers first for an empty schema; intentional, see access docs.
func (s *Provisioner) resolveRole(ctx context.Context, tx *gorm.DB, event domain.IdentityCreated, schemaName string) (domain.Role, error) {
	if meta := strings.TrimSpace(strings.ToLower(event.MetadataRole())); meta != "" {
		role := domain.Role(meta)
		if !role.Valid() {
			return "", domain.ErrInvalidRole
		}
		return role, nil
	}

	count, err := s.repo.CountBySchema(ctx, tx, schemaName)
	if err != nil {
		return "", err
	}
	if count == 0 {
		return domain.RoleAdmin, nil
	}
	return domain.RoleUser, nil
}

func defaultFullName(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return email
	}
	return email[:at]
}
