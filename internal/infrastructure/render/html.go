package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"sort"

	"salesreports/internal/core/types"
	"salesreports/internal/domain/salesreport"
)

// HTMLRenderer renders an aggregation result as a standalone HTML document.
// Implements salesreport.DocumentRenderer.
type HTMLRenderer struct {
	tmpl *template.Template
}

// NewHTMLRenderer parses the report template.
func NewHTMLRenderer() (*HTMLRenderer, error) {
	tmpl, err := template.New("sales_report").Parse(reportTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}
	return &HTMLRenderer{tmpl: tmpl}, nil
}

// ContentType implements salesreport.DocumentRenderer.
func (r *HTMLRenderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render implements salesreport.DocumentRenderer.
func (r *HTMLRenderer) Render(ctx context.Context, scope salesreport.Scope, result *salesreport.AggregationResult) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, buildDocumentContext(scope, result)); err != nil {
		return nil, fmt.Errorf("execute report template: %w", err)
	}
	return buf.Bytes(), nil
}

// --- template context ---

type currencyTotalsRow struct {
	Currency         string
	Total            string
	Tax              string
	Untaxed          string
	PaymentAvailable string
}

type orderRow struct {
	Number   string
	SaleDate string
	State    string
	Currency string
	Total    string
}

type gatewayPaymentsRow struct {
	Gateway string
	Sums    []currencySumCell
}

type currencySumCell struct {
	Currency string
	Amount   string
}

type orderPaymentsRow struct {
	OrderNumber string
	Gateways    []currencySumCell
}

type topProductRow struct {
	Rank     int
	Product  string
	Quantity string
}

type documentContext struct {
	Layout    LayoutOptions
	Company   string
	StartDate string
	EndDate   string
	Customer  string
	Product   string
	Channel   string

	Orders        []orderRow
	Totals        []currencyTotalsRow
	Payments      []gatewayPaymentsRow
	PaymentTotals []currencySumCell

	DetailedPayments bool
	OrderPayments    []orderPaymentsRow

	TopProducts []topProductRow
}

func buildDocumentContext(scope salesreport.Scope, result *salesreport.AggregationResult) documentContext {
	doc := documentContext{
		Layout:           DefaultLayout(scope.CompanyName),
		Company:          scope.CompanyName,
		StartDate:        result.StartDate.Format("2006-01-02"),
		EndDate:          result.EndDate.Format("2006-01-02"),
		DetailedPayments: result.DetailedPayments,
	}
	if result.Customer != nil {
		doc.Customer = result.Customer.Name
	}
	if result.Product != nil {
		doc.Product = result.Product.Name
	}
	if result.Channel != nil {
		doc.Channel = result.Channel.Name
	}

	for _, o := range result.Orders {
		doc.Orders = append(doc.Orders, orderRow{
			Number:   o.Number,
			SaleDate: o.SaleDate.Format("2006-01-02"),
			State:    string(o.State),
			Currency: o.CurrencyCode,
			Total:    money(o.TotalAmount),
		})
	}

	// Map iteration order is random; sort currency codes so the document
	// is stable across renders.
	currencies := sortedCurrencies(result.TotalsByCurrency)
	for _, cur := range currencies {
		t := result.TotalsByCurrency[cur]
		doc.Totals = append(doc.Totals, currencyTotalsRow{
			Currency:         cur,
			Total:            money(t.Total),
			Tax:              money(t.Tax),
			Untaxed:          money(t.Untaxed),
			PaymentAvailable: money(t.PaymentAvailable),
		})
	}

	paymentCurrencies := sortedKeys(result.PaymentsByCurrency)
	for _, gw := range result.Gateways {
		row := gatewayPaymentsRow{Gateway: gw.Name}
		for _, cur := range paymentCurrencies {
			row.Sums = append(row.Sums, currencySumCell{
				Currency: cur,
				Amount:   money(result.PaymentsByGatewayCurrency.Get(gw.ID, cur)),
			})
		}
		doc.Payments = append(doc.Payments, row)
	}
	for _, cur := range paymentCurrencies {
		doc.PaymentTotals = append(doc.PaymentTotals, currencySumCell{
			Currency: cur,
			Amount:   money(result.PaymentsByCurrency.Get(cur)),
		})
	}

	if result.DetailedPayments {
		for _, o := range result.Orders {
			row := orderPaymentsRow{OrderNumber: o.Number}
			for _, gw := range result.Gateways {
				amount := result.PaymentsByOrderGateway.Get(o.ID, gw.ID)
				if amount.IsZero() {
					continue
				}
				row.Gateways = append(row.Gateways, currencySumCell{
					Currency: gw.Name,
					Amount:   money(amount),
				})
			}
			if len(row.Gateways) > 0 {
				doc.OrderPayments = append(doc.OrderPayments, row)
			}
		}
	}

	for i, top := range result.TopProducts {
		name := top.ProductID.String()
		if top.Product != nil {
			name = top.Product.Name
		}
		doc.TopProducts = append(doc.TopProducts, topProductRow{
			Rank:     i + 1,
			Product:  name,
			Quantity: top.Quantity.String(),
		})
	}

	return doc
}

func money(m types.Money) string {
	return m.StringFixed(2)
}

func sortedCurrencies(m map[string]salesreport.CurrencyTotals) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeys(m salesreport.CurrencySums) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

const reportTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Sales Report {{.StartDate}} to {{.EndDate}}</title>
<style>
body { font-family: sans-serif; font-size: 12px; }
table { border-collapse: collapse; width: 100%; margin-bottom: 1.5em; }
th, td { border: 1px solid #999; padding: 4px 8px; text-align: left; }
td.num { text-align: right; }
h1 { font-size: 18px; }
h2 { font-size: 14px; }
.meta { color: #555; margin-bottom: 1em; }
</style>
</head>
<body>
<h1>Sales Report</h1>
<div class="meta">
  <div>{{.Company}}</div>
  <div>Period: {{.StartDate}} to {{.EndDate}}</div>
  {{if .Customer}}<div>Customer: {{.Customer}}</div>{{end}}
  {{if .Product}}<div>Product: {{.Product}}</div>{{end}}
  {{if .Channel}}<div>Channel: {{.Channel}}</div>{{end}}
</div>

<h2>Orders</h2>
<table>
<tr><th>Number</th><th>Date</th><th>State</th><th>Currency</th><th>Total</th></tr>
{{range .Orders}}
<tr><td>{{.Number}}</td><td>{{.SaleDate}}</td><td>{{.State}}</td><td>{{.Currency}}</td><td class="num">{{.Total}}</td></tr>
{{end}}
</table>

<h2>Totals by Currency</h2>
<table>
<tr><th>Currency</th><th>Untaxed</th><th>Tax</th><th>Total</th><th>Payment Available</th></tr>
{{range .Totals}}
<tr><td>{{.Currency}}</td><td class="num">{{.Untaxed}}</td><td class="num">{{.Tax}}</td><td class="num">{{.Total}}</td><td class="num">{{.PaymentAvailable}}</td></tr>
{{end}}
</table>

{{if .Payments}}
<h2>Payments by Gateway</h2>
<table>
<tr><th>Gateway</th>{{range .PaymentTotals}}<th>{{.Currency}}</th>{{end}}</tr>
{{range .Payments}}
<tr><td>{{.Gateway}}</td>{{range .Sums}}<td class="num">{{.Amount}}</td>{{end}}</tr>
{{end}}
<tr><td><strong>Total</strong></td>{{range .PaymentTotals}}<td class="num"><strong>{{.Amount}}</strong></td>{{end}}</tr>
</table>
{{end}}

{{if .OrderPayments}}
<h2>Payment Details</h2>
<table>
<tr><th>Order</th><th>Gateway</th><th>Amount</th></tr>
{{range .OrderPayments}}{{$order := .OrderNumber}}
{{range .Gateways}}
<tr><td>{{$order}}</td><td>{{.Currency}}</td><td class="num">{{.Amount}}</td></tr>
{{end}}
{{end}}
</table>
{{end}}

{{if .TopProducts}}
<h2>Top 10 Products</h2>
<table>
<tr><th>#</th><th>Product</th><th>Quantity</th></tr>
{{range .TopProducts}}
<tr><td>{{.Rank}}</td><td>{{.Product}}</td><td class="num">{{.Quantity}}</td></tr>
{{end}}
</table>
{{end}}

<div class="meta" style="font-size: {{.Layout.FooterFontSize}}px;">{{.Layout.FooterLeft}} &mdash; {{.Layout.FooterRight}}</div>
</body>
</html>
`

// Ensure interface compliance
var _ salesreport.DocumentRenderer = (*HTMLRenderer)(nil)
