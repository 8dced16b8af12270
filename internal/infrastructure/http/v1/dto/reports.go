// Package dto defines the HTTP request/response shapes.
package dto

import (
	"sort"

	"salesreports/internal/domain/salesreport"
)

// DateLayout is the wire format for report dates.
const DateLayout = "2006-01-02"

// SalesReportRequest carries the wizard parameters for a report run.
type SalesReportRequest struct {
	StartDate        string  `json:"startDate" binding:"required"`
	EndDate          string  `json:"endDate" binding:"required"`
	CustomerID       *string `json:"customerId,omitempty"`
	ProductID        *string `json:"productId,omitempty"`
	ChannelID        *string `json:"channelId,omitempty"`
	DetailedPayments bool    `json:"detailedPayments"`
}

// WizardDefaultsResponse is the prefilled wizard form.
type WizardDefaultsResponse struct {
	StartDate        string  `json:"startDate"`
	EndDate          string  `json:"endDate"`
	ChannelID        *string `json:"channelId,omitempty"`
	DetailedPayments bool    `json:"detailedPayments"`
}

// FromWizardStart maps the wizard form to its response shape.
func FromWizardStart(start salesreport.WizardStart) WizardDefaultsResponse {
	resp := WizardDefaultsResponse{
		StartDate:        start.StartDate.Format(DateLayout),
		EndDate:          start.EndDate.Format(DateLayout),
		DetailedPayments: start.DetailedPayments,
	}
	if start.ChannelID != nil {
		s := start.ChannelID.String()
		resp.ChannelID = &s
	}
	return resp
}

// OrderResponse is a single order row. Monetary values are decimal strings.
type OrderResponse struct {
	ID               string `json:"id"`
	Number           string `json:"number"`
	SaleDate         string `json:"saleDate"`
	State            string `json:"state"`
	Currency         string `json:"currency"`
	TotalAmount      string `json:"totalAmount"`
	TaxAmount        string `json:"taxAmount"`
	UntaxedAmount    string `json:"untaxedAmount"`
	PaymentAvailable string `json:"paymentAvailable"`
}

// CurrencyTotalsResponse is a per-currency totals row.
type CurrencyTotalsResponse struct {
	Currency         string `json:"currency"`
	Total            string `json:"total"`
	Tax              string `json:"tax"`
	Untaxed          string `json:"untaxed"`
	PaymentAvailable string `json:"paymentAvailable"`
}

// GatewayPaymentsResponse is the per-gateway per-currency sums.
type GatewayPaymentsResponse struct {
	GatewayID   string            `json:"gatewayId"`
	GatewayName string            `json:"gatewayName"`
	ByCurrency  map[string]string `json:"byCurrency"`
}

// OrderPaymentsResponse is the per-order per-gateway breakdown.
type OrderPaymentsResponse struct {
	OrderID   string            `json:"orderId"`
	ByGateway map[string]string `json:"byGateway"`
}

// TopProductResponse is one row of the product ranking.
type TopProductResponse struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName,omitempty"`
	Quantity    string `json:"quantity"`
}

// ReferenceResponse is a resolved filter reference.
type ReferenceResponse struct {
	ID   string `json:"id"`
	Code string `json:"code,omitempty"`
	Name string `json:"name"`
}

// SalesReportResponse is the full aggregation payload.
type SalesReportResponse struct {
	StartDate          string                    `json:"startDate"`
	EndDate            string                    `json:"endDate"`
	DetailedPayments   bool                      `json:"detailedPayments"`
	Orders             []OrderResponse           `json:"orders"`
	TotalsByCurrency   []CurrencyTotalsResponse  `json:"totalsByCurrency"`
	PaymentsByGateway  []GatewayPaymentsResponse `json:"paymentsByGateway"`
	PaymentsByCurrency map[string]string         `json:"paymentsByCurrency"`
	PaymentsByOrder    []OrderPaymentsResponse   `json:"paymentsByOrder,omitempty"`
	TopProducts        []TopProductResponse      `json:"topProducts"`
	Customer           *ReferenceResponse        `json:"customer,omitempty"`
	Product            *ReferenceResponse        `json:"product,omitempty"`
	Channel            *ReferenceResponse        `json:"channel,omitempty"`
}

// FromAggregationResult maps the domain result to the response shape.
func FromAggregationResult(result *salesreport.AggregationResult) SalesReportResponse {
	resp := SalesReportResponse{
		StartDate:          result.StartDate.Format(DateLayout),
		EndDate:            result.EndDate.Format(DateLayout),
		DetailedPayments:   result.DetailedPayments,
		Orders:             make([]OrderResponse, 0, len(result.Orders)),
		TotalsByCurrency:   make([]CurrencyTotalsResponse, 0, len(result.TotalsByCurrency)),
		PaymentsByGateway:  make([]GatewayPaymentsResponse, 0, len(result.Gateways)),
		PaymentsByCurrency: make(map[string]string, len(result.PaymentsByCurrency)),
		TopProducts:        make([]TopProductResponse, 0, len(result.TopProducts)),
	}

	for _, o := range result.Orders {
		resp.Orders = append(resp.Orders, OrderResponse{
			ID:               o.ID.String(),
			Number:           o.Number,
			SaleDate:         o.SaleDate.Format(DateLayout),
			State:            string(o.State),
			Currency:         o.CurrencyCode,
			TotalAmount:      o.TotalAmount.StringFixed(2),
			TaxAmount:        o.TaxAmount.StringFixed(2),
			UntaxedAmount:    o.UntaxedAmount.StringFixed(2),
			PaymentAvailable: o.PaymentAvailable().StringFixed(2),
		})
	}

	currencies := make([]string, 0, len(result.TotalsByCurrency))
	for cur := range result.TotalsByCurrency {
		currencies = append(currencies, cur)
	}
	sort.Strings(currencies)
	for _, cur := range currencies {
		t := result.TotalsByCurrency[cur]
		resp.TotalsByCurrency = append(resp.TotalsByCurrency, CurrencyTotalsResponse{
			Currency:         cur,
			Total:            t.Total.StringFixed(2),
			Tax:              t.Tax.StringFixed(2),
			Untaxed:          t.Untaxed.StringFixed(2),
			PaymentAvailable: t.PaymentAvailable.StringFixed(2),
		})
	}

	for _, gw := range result.Gateways {
		row := GatewayPaymentsResponse{
			GatewayID:   gw.ID.String(),
			GatewayName: gw.Name,
			ByCurrency:  make(map[string]string),
		}
		for cur, amount := range result.PaymentsByGatewayCurrency[gw.ID] {
			row.ByCurrency[cur] = amount.StringFixed(2)
		}
		resp.PaymentsByGateway = append(resp.PaymentsByGateway, row)
	}

	for cur, amount := range result.PaymentsByCurrency {
		resp.PaymentsByCurrency[cur] = amount.StringFixed(2)
	}

	if result.DetailedPayments {
		for _, o := range result.Orders {
			byGateway := result.PaymentsByOrderGateway[o.ID]
			if len(byGateway) == 0 {
				continue
			}
			row := OrderPaymentsResponse{
				OrderID:   o.ID.String(),
				ByGateway: make(map[string]string, len(byGateway)),
			}
			for gwID, amount := range byGateway {
				row.ByGateway[gwID.String()] = amount.StringFixed(2)
			}
			resp.PaymentsByOrder = append(resp.PaymentsByOrder, row)
		}
	}

	for _, top := range result.TopProducts {
		row := TopProductResponse{
			ProductID: top.ProductID.String(),
			Quantity:  top.Quantity.String(),
		}
		if top.Product != nil {
			row.ProductName = top.Product.Name
		}
		resp.TopProducts = append(resp.TopProducts, row)
	}

	if result.Customer != nil {
		resp.Customer = &ReferenceResponse{ID: result.Customer.ID.String(), Code: result.Customer.Code, Name: result.Customer.Name}
	}
	if result.Product != nil {
		resp.Product = &ReferenceResponse{ID: result.Product.ID.String(), Code: result.Product.Code, Name: result.Product.Name}
	}
	if result.Channel != nil {
		resp.Channel = &ReferenceResponse{ID: result.Channel.ID.String(), Code: result.Channel.Code, Name: result.Channel.Name}
	}

	return resp
}
