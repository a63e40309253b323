package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/hospitality/backend/internal/domain/invoice"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// InvoiceDocument is everything printed on an invoice
type InvoiceDocument struct {
	Issuer   Issuer
	Invoice  *invoice.Invoice
	Locale   string
	Timezone string
}

// Issuer is the tenant block in the invoice header
type Issuer struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

var invoiceTemplate = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="UTF-8">
<title>{{.Invoice.Number}}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; font-size: 12px; color: #222; }
header { display: flex; justify-content: space-between; margin-bottom: 24px; }
h1 { font-size: 20px; margin: 0 0 4px; }
table { width: 100%; border-collapse: collapse; }
th, td { padding: 6px 4px; border-bottom: 1px solid #ddd; text-align: left; }
td.num, th.num { text-align: right; }
.totals td { border: none; }
.status { text-transform: uppercase; font-weight: bold; }
</style>
</head>
<body>
<header>
  <div>
    <h1>{{.Issuer.Name}}</h1>
    {{with .Issuer.Address}}<div>{{.}}</div>{{end}}
    {{with .Issuer.Email}}<div>{{.}}</div>{{end}}
    {{with .Issuer.Phone}}<div>{{.}}</div>{{end}}
  </div>
  <div>
    <h1>Invoice {{.Invoice.Number}}</h1>
    <div class="status">{{.Status}}</div>
    {{with .IssueDate}}<div>Issued: {{.}}</div>{{end}}
    {{with .DueDate}}<div>Due: {{.}}</div>{{end}}
  </div>
</header>
<section>
  <strong>Bill to</strong>
  <div>{{.Invoice.CustomerName}}</div>
  {{with .Invoice.CustomerEmail}}<div>{{.}}</div>{{end}}
</section>
<table>
  <thead><tr><th>Description</th><th class="num">Qty</th><th class="num">Unit price</th><th class="num">Amount</th></tr></thead>
  <tbody>
  {{range .Lines}}<tr><td>{{.Description}}</td><td class="num">{{.Quantity}}</td><td class="num">{{.UnitPrice}}</td><td class="num">{{.Amount}}</td></tr>
  {{end}}
  </tbody>
</table>
<table class="totals">
  <tr><td class="num">Subtotal</td><td class="num">{{.Subtotal}}</td></tr>
  {{if .HasDiscount}}<tr><td class="num">Discount</td><td class="num">-{{.Discount}}</td></tr>{{end}}
  <tr><td class="num">Tax ({{.TaxRate}}%)</td><td class="num">{{.Tax}}</td></tr>
  <tr><td class="num"><strong>Total</strong></td><td class="num"><strong>{{.Total}}</strong></td></tr>
  <tr><td class="num">Paid</td><td class="num">{{.Paid}}</td></tr>
  <tr><td class="num"><strong>Balance due</strong></td><td class="num"><strong>{{.Balance}}</strong></td></tr>
</table>
{{with .Invoice.Notes}}<p>{{.}}</p>{{end}}
</body>
</html>
`))

type lineView struct {
	Description string
	Quantity    string
	UnitPrice   string
	Amount      string
}

type invoiceView struct {
	Lang        string
	Issuer      Issuer
	Invoice     *invoice.Invoice
	Status      string
	IssueDate   string
	DueDate     string
	Lines       []lineView
	Subtotal    string
	HasDiscount bool
	Discount    string
	TaxRate     string
	Tax         string
	Total       string
	Paid        string
	Balance     string
}

// RenderInvoiceHTML lays the invoice out as a printable HTML page
func RenderInvoiceHTML(doc InvoiceDocument) (string, error) {
	if doc.Invoice == nil {
		return "", fmt.Errorf("pdf: invoice is nil")
	}
	tag := language.Make(doc.Locale)
	if tag == language.Und {
		tag = language.English
	}
	m, err := NewMoneyFormatter(tag, doc.Invoice.Currency)
	if err != nil {
		return "", err
	}
	loc := time.UTC
	if doc.Timezone != "" {
		if l, err := time.LoadLocation(doc.Timezone); err == nil {
			loc = l
		}
	}

	inv := doc.Invoice
	view := invoiceView{
		Lang:        tag.String(),
		Issuer:      doc.Issuer,
		Invoice:     inv,
		Status:      strings.ReplaceAll(string(inv.Status), "_", " "),
		Subtotal:    m.Format(inv.Subtotal),
		HasDiscount: inv.DiscountAmount.IsPositive(),
		Discount:    m.Format(inv.DiscountAmount),
		TaxRate:     inv.TaxRate.StringFixed(2),
		Tax:         m.Format(inv.TaxAmount),
		Total:       m.Format(inv.Total),
		Paid:        m.Format(inv.AmountPaid),
		Balance:     m.Format(inv.Balance()),
	}
	if inv.IssueDate != nil {
		view.IssueDate = inv.IssueDate.In(loc).Format(time.DateOnly)
	}
	if inv.DueDate != nil {
		view.DueDate = inv.DueDate.In(loc).Format(time.DateOnly)
	}
	for _, item := range inv.Items {
		view.Lines = append(view.Lines, lineView{
			Description: item.Description,
			Quantity:    item.Quantity.String(),
			UnitPrice:   m.Format(item.UnitPrice),
			Amount:      m.Format(item.Amount),
		})
	}

	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("pdf: failed to execute invoice template: %w", err)
	}
	return buf.String(), nil
}

// MoneyFormatter prints amounts with the locale's grouping and the currency symbol
type MoneyFormatter struct {
	printer *message.Printer
	symbol  string
	scale   int
}

// NewMoneyFormatter builds a formatter for an ISO 4217 currency
func NewMoneyFormatter(tag language.Tag, code string) (*MoneyFormatter, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("pdf: unknown currency %q: %w", code, err)
	}
	p := message.NewPrinter(tag)
	scale, _ := currency.Standard.Rounding(unit)
	return &MoneyFormatter{
		printer: p,
		symbol:  p.Sprint(currency.Symbol(unit)),
		scale:   scale,
	}, nil
}

// Format renders an amount such as "€ 1,250.50"
func (f *MoneyFormatter) Format(d decimal.Decimal) string {
	v := d.Round(int32(f.scale)).InexactFloat64()
	return f.symbol + " " + f.printer.Sprint(number.Decimal(v, number.Scale(f.scale)))
}
