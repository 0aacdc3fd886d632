// Package pdf renders invoice documents in-process with a fixed layout:
// header, line-item table, then subtotal/tax/total footer.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// Document carries everything the invoice PDF shows, pre-formatted.
// Amount fields are display strings so the layout stays locale-agnostic.
type Document struct {
	CompanyName   string
	TenantName    string
	ReceiptNumber string
	IssueDate     string
	Status        string

	CustomerName string
	CustomerRNC  string
	CustomerAddr string

	Lines []Line

	Subtotal string
	Tax      string
	Total    string
	Paid     string
}

// Line is one row of the line-item table.
type Line struct {
	Description string
	Quantity    int64
	UnitPrice   string
	Amount      string
}

type Provider interface {
	RenderInvoice(ctx context.Context, doc Document) (io.Reader, error)
}

type marotoProvider struct{}

func New() Provider {
	return &marotoProvider{}
}

func (p *marotoProvider) RenderInvoice(ctx context.Context, doc Document) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(8, doc.CompanyName, props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, "Factura", props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	)

	m.AddRow(22,
		col.New(6).Add(
			text.New("NCF: "+doc.ReceiptNumber, props.Text{Top: 0, Style: fontstyle.Bold}),
			text.New("Fecha: "+doc.IssueDate, props.Text{Top: 5}),
			text.New("Estado: "+doc.Status, props.Text{Top: 10}),
		),
		col.New(6).Add(
			text.New(doc.CustomerName, props.Text{Style: fontstyle.Bold}),
			text.New("RNC: "+doc.CustomerRNC, props.Text{Top: 5}),
			text.New(doc.CustomerAddr, props.Text{Top: 10}),
		),
	)

	m.AddRow(8,
		text.NewCol(6, "Descripción", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Cant.", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Precio", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Importe", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, line := range doc.Lines {
		m.AddRow(8,
			text.NewCol(6, line.Description, props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("%d", line.Quantity), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, line.UnitPrice, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, line.Amount, props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Subtotal", props.Text{Size: 9}),
		text.NewCol(2, doc.Subtotal, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "ITBIS", props.Text{Size: 9}),
		text.NewCol(2, doc.Tax, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Total", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, doc.Total, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	if doc.Paid != "" {
		m.AddRow(8,
			col.New(8),
			text.NewCol(2, "Pagado", props.Text{Size: 9}),
			text.NewCol(2, doc.Paid, props.Text{Size: 9, Align: align.Right}),
		)
	}

	out, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(out.GetBytes()), nil
}
