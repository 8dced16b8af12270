package render

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesreports/internal/core/id"
	"salesreports/internal/core/types"
	"salesreports/internal/domain/catalogs"
	"salesreports/internal/domain/orders"
	"salesreports/internal/domain/salesreport"
)

func TestDefaultLayout(t *testing.T) {
	layout := DefaultLayout("Acme Corp")

	assert.Equal(t, "Letter", layout.PageSize)
	assert.Equal(t, "0.50in", layout.MarginTop)
	assert.Equal(t, "0.50in", layout.MarginBottom)
	assert.Equal(t, "0.50in", layout.MarginLeft)
	assert.Equal(t, "0.50in", layout.MarginRight)
	assert.Equal(t, 8, layout.FooterFontSize)
	assert.Equal(t, "Acme Corp", layout.FooterLeft)
	assert.Equal(t, "[page]/[toPage]", layout.FooterRight)
	assert.Equal(t, 5, layout.FooterSpacing)
}

func sampleResult() *salesreport.AggregationResult {
	g1 := id.New()
	p1 := id.New()

	order := &orders.Order{
		ID:            id.New(),
		Number:        "SO-00042",
		CurrencyCode:  "USD",
		SaleDate:      time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		State:         orders.StateDone,
		TotalAmount:   types.MustMoney("100.00"),
		TaxAmount:     types.MustMoney("10.00"),
		UntaxedAmount: types.MustMoney("90.00"),
	}

	result := &salesreport.AggregationResult{
		Orders: []*orders.Order{order},
		TotalsByCurrency: map[string]salesreport.CurrencyTotals{
			"USD": {
				Total:            types.MustMoney("100.00"),
				Tax:              types.MustMoney("10.00"),
				Untaxed:          types.MustMoney("90.00"),
				PaymentAvailable: types.MustMoney("40.00"),
			},
		},
		PaymentsByGatewayCurrency: salesreport.GatewayCurrencySums{
			g1: {"USD": types.MustMoney("60.00")},
		},
		PaymentsByCurrency: salesreport.CurrencySums{
			"USD": types.MustMoney("60.00"),
		},
		PaymentsByOrderGateway: salesreport.OrderGatewaySums{
			order.ID: {g1: types.MustMoney("60.00")},
		},
		TopProducts: []salesreport.ProductQuantity{
			{ProductID: p1, Product: &catalogs.Product{ID: p1, Name: "Widget"}, Quantity: types.NewQuantityFromInt(7)},
		},
		Gateways:  []*catalogs.Gateway{{ID: g1, Name: "Stripe"}},
		StartDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
	}
	return result
}

func TestHTMLRenderer_Render(t *testing.T) {
	renderer, err := NewHTMLRenderer()
	require.NoError(t, err)
	assert.Equal(t, "text/html; charset=utf-8", renderer.ContentType())

	scope := salesreport.Scope{CompanyName: "Acme Corp"}
	doc, err := renderer.Render(context.Background(), scope, sampleResult())
	require.NoError(t, err)

	html := string(doc)
	assert.Contains(t, html, "Acme Corp")
	assert.Contains(t, html, "Period: 2026-08-01 to 2026-08-31")
	assert.Contains(t, html, "SO-00042")
	assert.Contains(t, html, "Totals by Currency")
	assert.Contains(t, html, "Payments by Gateway")
	assert.Contains(t, html, "Stripe")
	assert.Contains(t, html, "60.00")
	assert.Contains(t, html, "Top 10 Products")
	assert.Contains(t, html, "Widget")

	// Detail section only appears when requested.
	assert.NotContains(t, html, "Payment Details")
}

func TestHTMLRenderer_DetailedPayments(t *testing.T) {
	renderer, err := NewHTMLRenderer()
	require.NoError(t, err)

	result := sampleResult()
	result.DetailedPayments = true

	doc, err := renderer.Render(context.Background(), salesreport.Scope{CompanyName: "Acme"}, result)
	require.NoError(t, err)

	html := string(doc)
	assert.Contains(t, html, "Payment Details")
	// One detail row per order/gateway pair with a non-zero sum.
	assert.Equal(t, 1, strings.Count(html, "<td>SO-00042</td><td>Stripe</td>"))
}

func TestHTMLRenderer_FilterMetaLines(t *testing.T) {
	renderer, err := NewHTMLRenderer()
	require.NoError(t, err)

	result := sampleResult()
	result.Customer = &catalogs.Party{Name: "Globex"}
	result.Channel = &catalogs.Channel{Name: "Webshop"}

	doc, err := renderer.Render(context.Background(), salesreport.Scope{CompanyName: "Acme"}, result)
	require.NoError(t, err)

	html := string(doc)
	assert.Contains(t, html, "Customer: Globex")
	assert.Contains(t, html, "Channel: Webshop")
	assert.NotContains(t, html, "Product:")
}
