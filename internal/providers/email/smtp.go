// Package email sends transactional mail over SMTP.
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type Provider interface {
	Send(ctx context.Context, to []string, subject, htmlBody string) error
	SendInvoice(ctx context.Context, to []string, data InvoiceMail) error
}

// InvoiceMail feeds the invoice notification template.
type InvoiceMail struct {
	CompanyName   string
	CustomerName  string
	ReceiptNumber string
	IssueDate     string
	Total         string
}

var invoiceTemplate = template.Must(template.New("invoice").Parse(`<html>
<body>
<p>Estimado(a) {{.CustomerName}},</p>
<p>Adjuntamos su factura {{.ReceiptNumber}} emitida el {{.IssueDate}} por un total de <strong>{{.Total}}</strong>.</p>
<p>Gracias por su preferencia,<br>{{.CompanyName}}</p>
</body>
</html>`))

type SMTPProvider struct {
	cfg Config
}

func NewSMTP(cfg Config) Provider {
	return &SMTPProvider{cfg: cfg}
}

func (p *SMTPProvider) Send(ctx context.Context, to []string, subject, htmlBody string) error {
	if len(to) == 0 {
		return fmt.Errorf("no recipients")
	}

	var auth smtp.Auth
	if p.cfg.Username != "" {
		auth = smtp.PlainAuth("", p.cfg.Username, p.cfg.Password, p.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", p.cfg.Host, p.cfg.Port)

	mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\n%s\r\n%s", to[0], subject, mime, htmlBody))

	return smtp.SendMail(addr, auth, p.cfg.From, to, msg)
}

func (p *SMTPProvider) SendInvoice(ctx context.Context, to []string, data InvoiceMail) error {
	var body bytes.Buffer
	if err := invoiceTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("render invoice mail: %w", err)
	}
	subject := fmt.Sprintf("Factura %s - %s", data.ReceiptNumber, data.CompanyName)
	return p.Send(ctx, to, subject, body.String())
}
