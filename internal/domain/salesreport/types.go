// Package salesreport provides the sales aggregation report.
package salesreport

import (
	"time"

	"salesreports/internal/core/apperror"
	"salesreports/internal/core/id"
	"salesreports/internal/core/types"
	"salesreports/internal/domain/catalogs"
	"salesreports/internal/domain/orders"
)

// Scope carries the request-scoped identity the report runs under.
// Passed explicitly into every call; nothing is read from global state.
type Scope struct {
	UserID      string
	CompanyID   string
	CompanyName string
	Today       time.Time
}

// Filter defines the report selection criteria.
// StartDate and EndDate are required and inclusive.
type Filter struct {
	StartDate time.Time
	EndDate   time.Time

	CustomerID *id.ID
	ProductID  *id.ID
	ChannelID  *id.ID

	// DetailedPayments requests the per-order per-gateway breakdown
	// in the rendered output.
	DetailedPayments bool
}

// Validate checks the required date range.
func (f Filter) Validate() error {
	if f.StartDate.IsZero() {
		return apperror.NewValidation("start date is required").WithDetail("field", "startDate")
	}
	if f.EndDate.IsZero() {
		return apperror.NewValidation("end date is required").WithDetail("field", "endDate")
	}
	if f.EndDate.Before(f.StartDate) {
		return apperror.NewValidation("end date must not be before start date").
			WithDetail("startDate", f.StartDate.Format("2006-01-02")).
			WithDetail("endDate", f.EndDate.Format("2006-01-02"))
	}
	return nil
}

// RangeDays returns the inclusive length of the date range in days.
func (f Filter) RangeDays() int {
	return int(f.EndDate.Sub(f.StartDate).Hours()/24) + 1
}

// CurrencyTotals are the per-currency order sums.
type CurrencyTotals struct {
	Total            types.Money
	Tax              types.Money
	Untaxed          types.Money
	PaymentAvailable types.Money
}

// CurrencySums maps currency code to a payment sum.
// Absent keys read as zero; mutation goes through add.
type CurrencySums map[string]types.Money

// Get returns the sum for a currency, zero when unseen.
func (m CurrencySums) Get(currency string) types.Money {
	return m[currency]
}

func (m CurrencySums) add(currency string, amount types.Money) {
	m[currency] = m[currency].Add(amount)
}

// GatewayCurrencySums maps gateway id to per-currency payment sums.
type GatewayCurrencySums map[id.ID]CurrencySums

// Get returns the sum for a gateway/currency pair, zero when unseen.
func (m GatewayCurrencySums) Get(gateway id.ID, currency string) types.Money {
	return m[gateway].Get(currency)
}

func (m GatewayCurrencySums) add(gateway id.ID, currency string, amount types.Money) {
	by := m[gateway]
	if by == nil {
		by = make(CurrencySums)
		m[gateway] = by
	}
	by.add(currency, amount)
}

// OrderGatewaySums maps order id to per-gateway payment sums.
type OrderGatewaySums map[id.ID]map[id.ID]types.Money

// Get returns the sum for an order/gateway pair, zero when unseen.
func (m OrderGatewaySums) Get(order, gateway id.ID) types.Money {
	return m[order][gateway]
}

func (m OrderGatewaySums) add(order, gateway id.ID, amount types.Money) {
	by := m[order]
	if by == nil {
		by = make(map[id.ID]types.Money)
		m[order] = by
	}
	by[gateway] = by[gateway].Add(amount)
}

// ProductQuantity is one row of the top-products ranking.
// Product is resolved lazily after the grouped query returns ids.
type ProductQuantity struct {
	ProductID id.ID
	Product   *catalogs.Product
	Quantity  types.Quantity
}

// AggregationResult is the complete report payload handed to renderers.
type AggregationResult struct {
	// Orders is the filtered selection, sale date descending.
	Orders []*orders.Order

	// TotalsByCurrency partitions the order set exactly: every order's
	// monetary fields contribute to exactly one currency bucket.
	TotalsByCurrency map[string]CurrencyTotals

	// PaymentsByGatewayCurrency, PaymentsByCurrency and
	// PaymentsByOrderGateway are accumulated in a single pass over the
	// payment collections of the filtered orders.
	PaymentsByGatewayCurrency GatewayCurrencySums
	PaymentsByCurrency        CurrencySums
	PaymentsByOrderGateway    OrderGatewaySums

	// TopProducts holds at most ten entries, quantity descending.
	// Empty when a product filter was supplied.
	TopProducts []ProductQuantity

	// Gateways are the distinct gateways encountered, in first-seen order.
	Gateways []*catalogs.Gateway

	// Resolved filter references, nil when the filter was absent.
	Customer *catalogs.Party
	Product  *catalogs.Product
	Channel  *catalogs.Channel

	// Echoed filter parameters.
	StartDate        time.Time
	EndDate          time.Time
	DetailedPayments bool
}
