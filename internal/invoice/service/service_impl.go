package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/quimicinter/billing/internal/clock"
	"github.com/quimicinter/billing/internal/config"
	customerdomain "github.com/quimicinter/billing/internal/customer/domain"
	invoicedomain "github.com/quimicinter/billing/internal/invoice/domain"
	"github.com/quimicinter/billing/internal/invoice/ncf"
	productdomain "github.com/quimicinter/billing/internal/product/domain"
	"github.com/quimicinter/billing/pkg/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	Cfg          config.Config
	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	Repo         invoicedomain.Repository
	CustomerRepo customerdomain.Repository
	ProductRepo  productdomain.Repository
	Allocator    *ncf.Allocator
}

type Service struct {
	cfg          config.Config
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	repo         invoicedomain.Repository
	customerRepo customerdomain.Repository
	productRepo  productdomain.Repository
	allocator    *ncf.Allocator
}

func New(p ServiceParam) invoicedomain.Service {
	return &Service{
		cfg:          p.Cfg,
		db:           p.DB,
		log:          p.Log.Named("invoice.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		repo:         p.Repo,
		customerRepo: p.CustomerRepo,
		productRepo:  p.ProductRepo,
		allocator:    p.Allocator,
	}
}

func (s *Service) Create(ctx context.Context, req invoicedomain.CreateInvoiceRequest) (*invoicedomain.Invoice, error) {
	schema, ok := tenantctx.Schema(ctx)
	if !ok {
		return nil, invoicedomain.ErrInvalidSchema
	}

	customerID, err := snowflake.ParseString(strings.TrimSpace(req.CustomerID))
	if err != nil {
		return nil, invoicedomain.ErrInvalidCustomer
	}
	if len(req.Items) == 0 {
		return nil, invoicedomain.ErrInvalidItems
	}

	issueDate := s.clock.Now()
	if req.IssueDate != nil {
		issueDate = req.IssueDate.UTC()
	}

	invoiceID := s.genID.Generate()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		customer, err := s.customerRepo.FindByID(ctx, tx, schema, customerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return invoicedomain.ErrInvalidCustomer
		}

		items, subtotal, err := s.buildItems(ctx, tx, schema, invoiceID, req.Items)
		if err != nil {
			return err
		}

		tax := subtotal * s.cfg.TaxRateBasis / 10000
		now := s.clock.Now()
		invoice := &invoicedomain.Invoice{
			ID:            invoiceID,
			SchemaName:    schema,
			CustomerID:    customerID,
			IssueDate:     issueDate,
			Subtotal:      subtotal,
			TaxAmount:     tax,
			TotalAmount:   subtotal + tax,
			Status:        invoicedomain.StatusDraft,
			PaymentStatus: invoicedomain.PaymentPending,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.repo.Insert(ctx, tx, invoice); err != nil {
			return err
		}
		return s.repo.ReplaceItems(ctx, tx, invoiceID, items)
	})
	if err != nil {
		return nil, err
	}

	return s.reload(ctx, schema, invoiceID)
}

func (s *Service) Update(ctx context.Context, id string, req invoicedomain.UpdateInvoiceRequest) (*invoicedomain.Invoice, error) {
	schema, ok := tenantctx.Schema(ctx)
	if !ok {
		return nil, invoicedomain.ErrInvalidSchema
	}
	invoiceID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		invoice, err := s.repo.FindByID(ctx, tx, schema, invoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return invoicedomain.ErrNotFound
		}
		if invoice.Status != invoicedomain.StatusDraft {
			return invoicedomain.ErrNotDraft
		}

		if raw := strings.TrimSpace(req.CustomerID); raw != "" {
			customerID, err := snowflake.ParseString(raw)
			if err != nil {
				return invoicedomain.ErrInvalidCustomer
			}
			customer, err := s.customerRepo.FindByID(ctx, tx, schema, customerID)
			if err != nil {
				return err
			}
			if customer == nil {
				return invoicedomain.ErrInvalidCustomer
			}
			invoice.CustomerID = customerID
		}
		if req.IssueDate != nil {
			invoice.IssueDate = req.IssueDate.UTC()
		}

		if len(req.Items) > 0 {
			items, subtotal, err := s.buildItems(ctx, tx, schema, invoice.ID, req.Items)
			if err != nil {
				return err
			}
			invoice.Subtotal = subtotal
			invoice.TaxAmount = subtotal * s.cfg.TaxRateBasis / 10000
			invoice.TotalAmount = invoice.Subtotal + invoice.TaxAmount
			if err := s.repo.ReplaceItems(ctx, tx, invoice.ID, items); err != nil {
				return err
			}
		}

		invoice.UpdatedAt = s.clock.Now()
		return s.repo.Save(ctx, tx, invoice)
	})
	if err != nil {
		return nil, err
	}

	return s.reload(ctx, schema, invoiceID)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	schema, ok := tenantctx.Schema(ctx)
	if !ok {
		return invoicedomain.ErrInvalidSchema
	}
	invoiceID, err := parseID(id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		invoice, err := s.repo.FindByID(ctx, tx, schema, invoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return invoicedomain.ErrNotFound
		}
		if invoice.Status != invoicedomain.StatusDraft {
			return invoicedomain.ErrNotDraft
		}
		return s.repo.Delete(ctx, tx, invoiceID)
	})
}

func (s *Service) Issue(ctx context.Context, id string) (*invoicedomain.Invoice, error) {
	schema, ok := tenantctx.Schema(ctx)
	if !ok {
		return nil, invoicedomain.ErrInvalidSchema
	}
	invoiceID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		invoice, err := s.repo.FindByID(ctx, tx, schema, invoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return invoicedomain.ErrNotFound
		}
		if invoice.Status != invoicedomain.StatusDraft {
			return invoicedomain.ErrNotDraft
		}

		number, err := s.allocator.Next(ctx, tx, schema)
		if err != nil {
			return err
		}

		invoice.NCF = &number
		invoice.Status = invoicedomain.StatusIssued
		invoice.IssueDate = s.clock.Now()
		invoice.UpdatedAt = invoice.IssueDate
		return s.repo.Save(ctx, tx, invoice)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("invoice issued",
		zap.String("schema", schema),
		zap.String("invoice_id", invoiceID.String()),
	)

	return s.reload(ctx, schema, invoiceID)
}

func (s *Service) Void(ctx context.Context, id string) (*invoicedomain.Invoice, error) {
	schema, ok := tenantctx.Schema(ctx)
	if !ok {
		return nil, invoicedomain.ErrInvalidSchema
	}
	invoiceID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		invoice, err := s.repo.FindByID(ctx, tx, schema, invoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return invoicedomain.ErrNotFound
		}
		if invoice.Status == invoicedomain.StatusVoided {
			return invoicedomain.ErrAlreadyVoided
		}

		invoice.Status = invoicedomain.StatusVoided
		invoice.UpdatedAt = s.clock.Now()
		return s.repo.Save(ctx, tx, invoice)
	})
	if err != nil {
		return nil, err
	}

	return s.reload(ctx, schema, invoiceID)
}

func (s *Service) RecordPayment(ctx context.Context, id string, req invoicedomain.RecordPaymentRequest) (*invoicedomain.Invoice, error) {
	schema, ok := tenantctx.Schema(ctx)
	if !ok {
		return nil, invoicedomain.ErrInvalidSchema
	}
	invoiceID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	if req.Amount <= 0 {
		return nil, invoicedomain.ErrInvalidAmount
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		invoice, err := s.repo.FindByID(ctx, tx, schema, invoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return invoicedomain.ErrNotFound
		}
		if invoice.Status != invoicedomain.StatusIssued {
			return invoicedomain.ErrNotIssued
		}

		invoice.AmountPaid += req.Amount
		switch {
		case invoice.AmountPaid >= invoice.TotalAmount:
			invoice.PaymentStatus = invoicedomain.PaymentPaid
		case invoice.AmountPaid > 0:
			invoice.PaymentStatus = invoicedomain.PaymentPartial
		default:
			invoice.PaymentStatus = invoicedomain.PaymentPending
		}
		invoice.UpdatedAt = s.clock.Now()
		return s.repo.Save(ctx, tx, invoice)
	})
	if err != nil {
		return nil, err
	}

	return s.reload(ctx, schema, invoiceID)
}

func (s *Service) GetByID(ctx context.Context, id string) (*invoicedomain.Invoice, error) {
	schema, ok := tenantctx.Schema(ctx)
	if !ok {
		return nil, invoicedomain.ErrInvalidSchema
	}
	invoiceID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.reload(ctx, schema, invoiceID)
}

func (s *Service) ListAll(ctx context.Context) ([]invoicedomain.Invoice, error) {
	schema, ok := tenantctx.Schema(ctx)
	if !ok {
		return nil, invoicedomain.ErrInvalidSchema
	}
	return s.repo.ListAll(ctx, s.db, schema)
}

func (s *Service) buildItems(ctx context.Context, tx *gorm.DB, schema string, invoiceID snowflake.ID, inputs []invoicedomain.LineItemInput) ([]invoicedomain.InvoiceItem, int64, error) {
	items := make([]invoicedomain.InvoiceItem, 0, len(inputs))
	var subtotal int64
	for _, input := range inputs {
		productID, err := snowflake.ParseString(strings.TrimSpace(input.ProductID))
		if err != nil || input.Quantity <= 0 {
			return nil, 0, invoicedomain.ErrInvalidItems
		}
		product, err := s.productRepo.FindByID(ctx, tx, schema, productID)
		if err != nil {
			return nil, 0, err
		}
		if product == nil {
			return nil, 0, invoicedomain.ErrInvalidItems
		}

		unitPrice := product.UnitPrice
		if input.UnitPrice > 0 {
			unitPrice = input.UnitPrice
		}
		amount := unitPrice * input.Quantity
		subtotal += amount
		items = append(items, invoicedomain.InvoiceItem{
			ID:        s.genID.Generate(),
			InvoiceID: invoiceID,
			ProductID: productID,
			Quantity:  input.Quantity,
			UnitPrice: unitPrice,
			Amount:    amount,
			CreatedAt: s.clock.Now(),
		})
	}
	return items, subtotal, nil
}

func (s *Service) reload(ctx context.Context, schema string, id snowflake.ID) (*invoicedomain.Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, s.db, schema, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, invoicedomain.ErrNotFound
	}
	return invoice, nil
}

func parseID(raw string) (snowflake.ID, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil {
		return 0, invoicedomain.ErrInvalidID
	}
	return parsed, nil
}
