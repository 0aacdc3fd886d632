package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/quimicinter/billing/internal/customer/domain"
	"github.com/quimicinter/billing/pkg/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p ServiceParam) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("customer.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCustomerRequest) (*domain.Customer, error) {
	schema, ok := tenantctx.Schema(ctx)
	if !ok {
		return nil, domain.ErrInvalidSchema
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	customer := &domain.Customer{
		ID:         s.genID.Generate(),
		SchemaName: schema,
		Name:       name,
		Email:      strings.TrimSpace(strings.ToLower(req.Email)),
		RNC:        strings.TrimSpace(req.RNC),
		Phone:      strings.TrimSpace(req.Phone),
		Address:    strings.TrimSpace(req.Address),
	}
	if err := s.repo.Insert(ctx, s.db, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *Service) List(ctx context.Context, filter domain.ListCustomerFilter) ([]*domain.Customer, error) {
	schema, ok := tenantctx.Schema(ctx)
	if !ok {
		return nil, domain.ErrInvalidSchema
	}
	return s.repo.List(ctx, s.db, schema, filter)
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	schema, ok := tenantctx.Schema(ctx)
	if !ok {
		return nil, domain.ErrInvalidSchema
	}
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	customer, err := s.repo.FindByID(ctx, s.db, schema, parsed)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	return customer, nil
}
