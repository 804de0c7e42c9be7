package report

import (
	"bytes"
	"context"
	"html/template"
	"time"

	"github.com/praxis-suite/praxis/internal/invoices"
)

var invoiceTemplate = template.Must(template.New("invoice").Parse(`<html>
<head><title>Invoice {{.Number}}</title>
<style>
body { font-family: sans-serif; margin: 40px; }
h1 { font-size: 20px; }
table { border-collapse: collapse; margin-top: 24px; }
td, th { border: 1px solid #ccc; padding: 6px 12px; text-align: left; }
.meta { color: #666; font-size: 12px; }
</style>
</head>
<body>
<h1>Invoice {{.Number}}</h1>
<p class="meta">Status: {{.Status}}{{if .IssuedAt}} &middot; Issued {{.IssuedAt}}{{end}}</p>
<table>
<tr><th>Project</th><td>#{{.ProjectID}}</td></tr>
<tr><th>Amount</th><td>{{printf "%.2f" .Amount}} {{.Currency}}</td></tr>
</table>
<p class="meta">Generated {{.GeneratedAt}}</p>
</body>
</html>`))

type invoiceView struct {
	Number      string
	Status      string
	ProjectID   int64
	Amount      float64
	Currency    string
	IssuedAt    string
	GeneratedAt string
}

// InvoiceRenderer turns invoices into PDF documents.
type InvoiceRenderer struct {
	client *Client
}

// NewInvoiceRenderer constructs a renderer over the Gotenberg client.
func NewInvoiceRenderer(client *Client) *InvoiceRenderer {
	return &InvoiceRenderer{client: client}
}

// RenderInvoice builds the invoice HTML and converts it to PDF.
func (r *InvoiceRenderer) RenderInvoice(ctx context.Context, invoice invoices.Invoice) ([]byte, error) {
	view := invoiceView{
		Number:      invoice.Number,
		Status:      invoice.Status,
		ProjectID:   invoice.ProjectID,
		Amount:      invoice.Amount,
		Currency:    invoice.Currency,
		GeneratedAt: time.Now().UTC().Format(time.RFC1123),
	}
	if invoice.IssuedAt != nil {
		view.IssuedAt = invoice.IssuedAt.Format("2006-01-02")
	}
	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, view); err != nil {
		return nil, err
	}
	return r.client.RenderHTML(ctx, buf.String())
}
