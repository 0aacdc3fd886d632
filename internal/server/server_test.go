package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/quimicinter/billing/internal/clock"
	"github.com/quimicinter/billing/internal/config"
	customerdomain "github.com/quimicinter/billing/internal/customer/domain"
	customerrepo "github.com/quimicinter/billing/internal/customer/repository"
	customerservice "github.com/quimicinter/billing/internal/customer/service"
	invoicedomain "github.com/quimicinter/billing/internal/invoice/domain"
	"github.com/quimicinter/billing/internal/invoice/ncf"
	invoicerepo "github.com/quimicinter/billing/internal/invoice/repository"
	invoiceservice "github.com/quimicinter/billing/internal/invoice/service"
	"github.com/quimicinter/billing/internal/invoicelist"
	"github.com/quimicinter/billing/internal/metrics"
	productdomain "github.com/quimicinter/billing/internal/product/domain"
	productrepo "github.com/quimicinter/billing/internal/product/repository"
	productservice "github.com/quimicinter/billing/internal/product/service"
	profiledomain "github.com/quimicinter/billing/internal/profile/domain"
	profilerepo "github.com/quimicinter/billing/internal/profile/repository"
	profileservice "github.com/quimicinter/billing/internal/profile/service"
	emailprovider "github.com/quimicinter/billing/internal/providers/email"
	"github.com/quimicinter/billing/internal/providers/pdf"
	"github.com/quimicinter/billing/internal/tenant"
	"github.com/quimicinter/billing/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type capturingMailer struct {
	to      []string
	subject string
	sends   int
}

func (m *capturingMailer) Send(ctx context.Context, to []string, subject, htmlBody string) error {
	m.to = to
	m.subject = subject
	m.sends++
	return nil
}

func (m *capturingMailer) SendInvoice(ctx context.Context, to []string, data emailprovider.InvoiceMail) error {
	return m.Send(ctx, to, "Factura "+data.ReceiptNumber, "")
}

type testServer struct {
	srv    *Server
	conn   *gorm.DB
	mailer *capturingMailer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&profiledomain.Profile{},
		&customerdomain.Customer{},
		&productdomain.Product{},
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceItem{},
		&ncf.Sequence{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	cfg := config.Config{
		Schemas:       []string{"quimicinter", "qalinkforce"},
		DefaultSchema: "public",
		PageSize:      10,
		CompanyName:   "Quimicinter S.A.",
		CurrencyCode:  "DOP",
		TaxRateBasis:  1800,
		NCFSeriesCode: "B01",
	}
	registry := tenant.NewRegistry(cfg)
	log := zap.NewNop()
	clk := clock.NewFakeClock(time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC))

	profileRepo := profilerepo.Provide()
	provisioner := profileservice.NewProvisioner(profileservice.ProvisionerParam{
		DB: conn, Log: log, GenID: node, Registry: registry, Repo: profileRepo, Clock: clk,
	})
	validator := profileservice.NewValidator(profileservice.ValidatorParam{
		DB: conn, Log: log, Registry: registry, Repo: profileRepo,
	})

	customerSvc := customerservice.New(customerservice.ServiceParam{
		DB: conn, Log: log, GenID: node, Repo: customerrepo.Provide(),
	})
	productSvc := productservice.New(productservice.ServiceParam{
		DB: conn, Log: log, GenID: node, Repo: productrepo.Provide(),
	})
	invoiceSvc := invoiceservice.New(invoiceservice.ServiceParam{
		Cfg: cfg, DB: conn, Log: log, GenID: node, Clock: clk,
		Repo:         invoicerepo.Provide(),
		CustomerRepo: customerrepo.Provide(),
		ProductRepo:  productrepo.Provide(),
		Allocator:    ncf.NewAllocator(cfg.NCFSeriesCode),
	})
	loaders := invoicelist.NewLoaders(invoicelist.LoadersParam{
		Cfg: cfg, Service: invoiceSvc, Clock: clk, Log: log,
	})

	mailer := &capturingMailer{}
	srv := NewServer(ServerParams{
		Cfg:         cfg,
		DB:          conn,
		Log:         log,
		Registry:    registry,
		Provisioner: provisioner,
		Validator:   validator,
		InvoiceSvc:  invoiceSvc,
		CustomerSvc: customerSvc,
		ProductSvc:  productSvc,
		Loaders:     loaders,
		PDFProvider: pdf.New(),
		Mailer:      mailer,
		Metrics:     metrics.New(),
		Clock:       clk,
	})

	return &testServer{srv: srv, conn: conn, mailer: mailer}
}

func (ts *testServer) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	ts.srv.Engine().ServeHTTP(rec, req)
	return rec
}

func adminHeaders(userID string) map[string]string {
	return map[string]string{
		HeaderSchema: "quimicinter",
		HeaderUserID: userID,
	}
}

func (ts *testServer) provisionAdmin(t *testing.T, userID string) {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/v1/identities", map[string]any{
		"user_id": userID,
		"email":   userID + "@quimicinter.com.do",
		"metadata": map[string]any{
			"schema_name": "quimicinter",
			"role":        "admin",
		},
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIdentityProvisioningEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.provisionAdmin(t, "usr_1")

	var count int64
	require.NoError(t, ts.conn.Model(&profiledomain.Profile{}).
		Where("user_id = ?", "usr_1").Count(&count).Error)
	assert.Equal(t, int64(2), count, "quimicinter plus qalinkforce, never public")

	// Administrators pass the access check for any tenant.
	rec := ts.do(t, http.MethodGet, "/v1/access/qalinkforce", nil, adminHeaders("usr_1"))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp accessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Allowed)
}

func TestIdentityEndpointRejectsMissingFields(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodPost, "/v1/identities", map[string]any{"email": "x@y.do"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAccessCheckDeniesUnknownIdentity(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/v1/access/quimicinter", nil, adminHeaders("ghost"))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp accessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Allowed)
}

func TestAccessGate(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/v1/invoices", nil, map[string]string{HeaderSchema: "quimicinter"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodGet, "/v1/invoices", nil, adminHeaders("ghost"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRegularUserConfinedToOwnTenant(t *testing.T) {
	ts := newTestServer(t)
	ts.provisionAdmin(t, "usr_admin")

	// Second identity in an occupied tenant becomes a regular user.
	rec := ts.do(t, http.MethodPost, "/v1/identities", map[string]any{
		"user_id":  "usr_2",
		"email":    "u2@quimicinter.com.do",
		"metadata": map[string]any{"schema_name": "quimicinter"},
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(t, http.MethodGet, "/v1/access/quimicinter", nil, adminHeaders("usr_2"))
	var resp accessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Allowed)

	rec = ts.do(t, http.MethodGet, "/v1/access/qalinkforce", nil, adminHeaders("usr_2"))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Allowed)
}

func TestInvoiceLifecycleOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	ts.provisionAdmin(t, "usr_1")
	h := adminHeaders("usr_1")

	rec := ts.do(t, http.MethodPost, "/v1/customers", map[string]any{
		"name":  "Industrias Pérez",
		"email": "compras@perez.do",
		"rnc":   "101-23456-7",
	}, h)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var customer customerdomain.Customer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &customer))

	rec = ts.do(t, http.MethodPost, "/v1/products", map[string]any{
		"code":       "CL-55",
		"name":       "Cloro industrial 55gl",
		"unit_price": 250000,
	}, h)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var product productdomain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &product))

	rec = ts.do(t, http.MethodPost, "/v1/invoices", map[string]any{
		"customer_id": customer.ID.String(),
		"items": []map[string]any{
			{"product_id": product.ID.String(), "quantity": 2},
		},
	}, h)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var invoice invoicedomain.Invoice
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &invoice))
	assert.Equal(t, invoicedomain.StatusDraft, invoice.Status)
	assert.Equal(t, int64(590000), invoice.TotalAmount)

	id := invoice.ID.String()

	rec = ts.do(t, http.MethodPost, "/v1/invoices/"+id+"/issue", nil, h)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &invoice))
	require.NotNil(t, invoice.NCF)
	assert.Equal(t, "B0100000001", *invoice.NCF)

	// Issued invoices are immutable.
	rec = ts.do(t, http.MethodDelete, "/v1/invoices/"+id, nil, h)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(t, http.MethodPost, "/v1/invoices/"+id+"/payments", map[string]any{
		"amount": 590000,
	}, h)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &invoice))
	assert.Equal(t, invoicedomain.PaymentPaid, invoice.PaymentStatus)

	rec = ts.do(t, http.MethodGet, "/v1/invoices?category=paid", nil, h)
	require.Equal(t, http.StatusOK, rec.Code)
	var snap invoicelist.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	require.Len(t, snap.Rows, 1)
	assert.Equal(t, 1, snap.Stats.CountByStatus[invoicedomain.StatusIssued])
}

func TestInvoiceListUnknownCategory(t *testing.T) {
	ts := newTestServer(t)
	ts.provisionAdmin(t, "usr_1")

	rec := ts.do(t, http.MethodGet, "/v1/invoices?category=bogus", nil, adminHeaders("usr_1"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportCSV(t *testing.T) {
	ts := newTestServer(t)
	ts.provisionAdmin(t, "usr_1")

	rec := ts.do(t, http.MethodGet, "/v1/invoices/export", nil, adminHeaders("usr_1"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "ncf,customer,issue_date")
}

func TestEmailInvoiceDefaultsToCustomerAddress(t *testing.T) {
	ts := newTestServer(t)
	ts.provisionAdmin(t, "usr_1")
	h := adminHeaders("usr_1")

	rec := ts.do(t, http.MethodPost, "/v1/customers", map[string]any{
		"name":  "Farmacia Central",
		"email": "admin@farmaciacentral.do",
	}, h)
	require.Equal(t, http.StatusCreated, rec.Code)
	var customer customerdomain.Customer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &customer))

	rec = ts.do(t, http.MethodPost, "/v1/products", map[string]any{
		"code": "AM-01", "name": "Ácido muriático", "unit_price": 45000,
	}, h)
	require.Equal(t, http.StatusCreated, rec.Code)
	var product productdomain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &product))

	rec = ts.do(t, http.MethodPost, "/v1/invoices", map[string]any{
		"customer_id": customer.ID.String(),
		"items":       []map[string]any{{"product_id": product.ID.String(), "quantity": 1}},
	}, h)
	require.Equal(t, http.StatusCreated, rec.Code)
	var invoice invoicedomain.Invoice
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &invoice))

	// A bodiless POST is the normal "send to the customer" case.
	rec = ts.do(t, http.MethodPost, "/v1/invoices/"+invoice.ID.String()+"/email", nil, h)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"admin@farmaciacentral.do"}, ts.mailer.to)
	assert.Equal(t, 1, ts.mailer.sends)
}
