package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quimicinter/billing/internal/exporter"
	invoicedomain "github.com/quimicinter/billing/internal/invoice/domain"
	"github.com/quimicinter/billing/internal/invoicelist"
	"github.com/quimicinter/billing/pkg/tenantctx"
	"go.uber.org/zap"
)

func (s *Server) listQuery(c *gin.Context) (invoicelist.Query, error) {
	category := invoicelist.Category(c.Query("category"))
	if !category.Valid() {
		return invoicelist.Query{}, newValidationError("category", "invalid_category", "unknown category filter")
	}

	from, err := parseOptionalTime(c.Query("from"), false)
	if err != nil {
		return invoicelist.Query{}, newValidationError("from", "invalid_date", "invalid from date")
	}
	to, err := parseOptionalTime(c.Query("to"), true)
	if err != nil {
		return invoicelist.Query{}, newValidationError("to", "invalid_date", "invalid to date")
	}

	q := invoicelist.Query{
		Search: c.Query("q"),
		Sort:   invoicelist.Column(c.Query("sort")),
		Desc:   parseOptionalBool(c.Query("desc")),
		Page:   parseOptionalInt(c.Query("page"), 1),
	}
	// A date range displaces the category filter, and the other way round.
	if from != nil || to != nil {
		q = q.WithDateRange(from, to)
		q.Page = parseOptionalInt(c.Query("page"), 1)
	} else {
		q.Category = category
	}
	return q, nil
}

// ListInvoices renders the current page of the tenant's invoice list. The
// full set is fetched and refined in memory; stale concurrent refreshes
// are discarded by the per-tenant loader.
func (s *Server) ListInvoices(c *gin.Context) {
	q, err := s.listQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	schema, _ := tenantctx.Schema(c.Request.Context())
	snapshot := s.loaders.For(schema).Load(c.Request.Context(), q)
	c.JSON(http.StatusOK, snapshot)
}

// InvoiceStats reports the current calendar month's summary.
func (s *Server) InvoiceStats(c *gin.Context) {
	invoices, err := s.invoiceSvc.ListAll(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoicelist.ComputeStats(invoices, s.clock.Now()))
}

// ExportInvoicesCSV streams the filtered list as a CSV download. Export
// failures after the header is written are logged, not surfaced.
func (s *Server) ExportInvoicesCSV(c *gin.Context) {
	q, err := s.listQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	invoices, err := s.invoiceSvc.ListAll(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	filtered := invoicelist.Apply(invoices, q, s.clock.Now())

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="invoices.csv"`)
	if err := exporter.WriteCSV(c.Writer, filtered); err != nil {
		s.log.Error("csv export failed", zap.Error(err))
	}
}

func (s *Server) CreateInvoice(c *gin.Context) {
	var req invoicedomain.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	invoice, err := s.invoiceSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	invoice, err := s.invoiceSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (s *Server) UpdateInvoice(c *gin.Context) {
	var req invoicedomain.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	invoice, err := s.invoiceSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// DeleteInvoice removes a draft permanently. The confirmation step lives
// in the client; the API call itself is the point of no return.
func (s *Server) DeleteInvoice(c *gin.Context) {
	if err := s.invoiceSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) IssueInvoice(c *gin.Context) {
	invoice, err := s.invoiceSvc.Issue(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.metrics.RecordInvoiceIssued()
	c.JSON(http.StatusOK, invoice)
}

func (s *Server) VoidInvoice(c *gin.Context) {
	invoice, err := s.invoiceSvc.Void(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (s *Server) RecordPayment(c *gin.Context) {
	var req invoicedomain.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	invoice, err := s.invoiceSvc.RecordPayment(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// InvoicePDF renders the invoice as a PDF document with a fixed layout.
func (s *Server) InvoicePDF(c *gin.Context) {
	invoice, err := s.invoiceSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc := exporter.BuildDocument(s.cfg.CompanyName, invoice)
	reader, err := s.pdfProvider.RenderInvoice(c.Request.Context(), doc)
	if err != nil {
		s.log.Error("pdf render failed", zap.Error(err), zap.String("invoice_id", c.Param("id")))
		AbortWithError(c, ErrInternal)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `attachment; filename="`+doc.ReceiptNumber+`.pdf"`)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		s.log.Error("pdf write failed", zap.Error(err))
	}
}

type emailInvoiceRequest struct {
	To []string `json:"to"`
}

// EmailInvoice sends the invoice notification mail. When no recipients are
// given, the customer's address is used.
func (s *Server) EmailInvoice(c *gin.Context) {
	var req emailInvoiceRequest
	// An absent body means "send to the customer", not a malformed request.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		AbortWithError(c, invalidRequestError())
		return
	}

	invoice, err := s.invoiceSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	to := req.To
	if len(to) == 0 {
		if invoice.Customer == nil || invoice.Customer.Email == "" {
			AbortWithError(c, newValidationError("to", "required", "no recipient available"))
			return
		}
		to = []string{invoice.Customer.Email}
	}

	mail := exporter.BuildMail(s.cfg.CompanyName, invoice)
	if err := s.mailer.SendInvoice(c.Request.Context(), to, mail); err != nil {
		s.log.Error("invoice mail failed", zap.Error(err), zap.String("invoice_id", c.Param("id")))
		AbortWithError(c, ErrInternal)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sent": true, "to": to})
}
