// Package server wires the HTTP surface: tenant context resolution, the
// access gate, and the billing API routes.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/quimicinter/billing/internal/clock"
	"github.com/quimicinter/billing/internal/config"
	customerdomain "github.com/quimicinter/billing/internal/customer/domain"
	invoicedomain "github.com/quimicinter/billing/internal/invoice/domain"
	"github.com/quimicinter/billing/internal/invoicelist"
	"github.com/quimicinter/billing/internal/metrics"
	productdomain "github.com/quimicinter/billing/internal/product/domain"
	profiledomain "github.com/quimicinter/billing/internal/profile/domain"
	"github.com/quimicinter/billing/internal/providers/email"
	"github.com/quimicinter/billing/internal/providers/pdf"
	"github.com/quimicinter/billing/internal/tenant"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	db          *gorm.DB
	log         *zap.Logger
	registry    *tenant.Registry
	provisioner profiledomain.Provisioner
	validator   profiledomain.Validator
	invoiceSvc  invoicedomain.Service
	customerSvc customerdomain.Service
	productSvc  productdomain.Service
	loaders     *invoicelist.Loaders
	pdfProvider pdf.Provider
	mailer      email.Provider
	metrics     *metrics.Metrics
	clock       clock.Clock
}

type ServerParams struct {
	fx.In

	Cfg         config.Config
	DB          *gorm.DB
	Log         *zap.Logger
	Registry    *tenant.Registry
	Provisioner profiledomain.Provisioner
	Validator   profiledomain.Validator
	InvoiceSvc  invoicedomain.Service
	CustomerSvc customerdomain.Service
	ProductSvc  productdomain.Service
	Loaders     *invoicelist.Loaders
	PDFProvider pdf.Provider
	Mailer      email.Provider
	Metrics     *metrics.Metrics
	Clock       clock.Clock
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:      newEngine(p.Log, p.Metrics),
		cfg:         p.Cfg,
		db:          p.DB,
		log:         p.Log.Named("server"),
		registry:    p.Registry,
		provisioner: p.Provisioner,
		validator:   p.Validator,
		invoiceSvc:  p.InvoiceSvc,
		customerSvc: p.CustomerSvc,
		productSvc:  p.ProductSvc,
		loaders:     p.Loaders,
		pdfProvider: p.PDFProvider,
		mailer:      p.Mailer,
		metrics:     p.Metrics,
		clock:       p.Clock,
	}

	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func newEngine(log *zap.Logger, m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(metrics.GinMiddleware(m))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{})))

	return r
}

func (s *Server) registerRoutes() {
	v1 := s.engine.Group("/v1", s.SchemaContext())

	// Identity webhook and the access check carry their own identity
	// semantics; the profile gate does not apply to them.
	v1.POST("/identities", s.IdentityCreated)
	v1.GET("/access/:schema", s.CheckAccess)

	api := v1.Group("", s.AccessRequired())

	api.GET("/invoices", s.ListInvoices)
	api.GET("/invoices/stats", s.InvoiceStats)
	api.GET("/invoices/export", s.ExportInvoicesCSV)
	api.POST("/invoices", s.CreateInvoice)
	api.GET("/invoices/:id", s.GetInvoiceByID)
	api.PATCH("/invoices/:id", s.UpdateInvoice)
	api.DELETE("/invoices/:id", s.DeleteInvoice)
	api.POST("/invoices/:id/issue", s.IssueInvoice)
	api.POST("/invoices/:id/void", s.VoidInvoice)
	api.POST("/invoices/:id/payments", s.RecordPayment)
	api.GET("/invoices/:id/pdf", s.InvoicePDF)
	api.POST("/invoices/:id/email", s.EmailInvoice)

	api.GET("/customers", s.ListCustomers)
	api.POST("/customers", s.CreateCustomer)
	api.GET("/customers/:id", s.GetCustomerByID)

	api.GET("/products", s.ListProducts)
	api.POST("/products", s.CreateProduct)
	api.GET("/products/:id", s.GetProductByID)
}

func run(lc fx.Lifecycle, s *Server, log *zap.Logger) {
	srv := &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: s.engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Module("http.server",
	fx.Provide(NewServer),
	fx.Invoke(run),
)
