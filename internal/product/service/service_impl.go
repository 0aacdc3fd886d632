package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/quimicinter/billing/internal/product/domain"
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
		log:   p.Log.Named("product.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error) {
	schema, ok := tenantctx.Schema(ctx)
	if !ok {
		return nil, domain.ErrInvalidSchema
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.UnitPrice < 0 {
		return nil, domain.ErrInvalidPrice
	}

	product := &domain.Product{
		ID:         s.genID.Generate(),
		SchemaName: schema,
		Code:       strings.TrimSpace(req.Code),
		Name:       name,
		UnitPrice:  req.UnitPrice,
	}
	if err := s.repo.Insert(ctx, s.db, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) List(ctx context.Context) ([]*domain.Product, error) {
	schema, ok := tenantctx.Schema(ctx)
	if !ok {
		return nil, domain.ErrInvalidSchema
	}
	return s.repo.List(ctx, s.db, schema)
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	schema, ok := tenantctx.Schema(ctx)
	if !ok {
		return nil, domain.ErrInvalidSchema
	}
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	product, err := s.repo.FindByID(ctx, s.db, schema, parsed)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}
