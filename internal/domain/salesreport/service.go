package salesreport

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"salesreports/internal/core/apperror"
	"salesreports/internal/core/id"
	"salesreports/internal/domain/catalogs"
	"salesreports/internal/domain/orders"
)

var tracer = otel.Tracer("salesreports/salesreport")

// TopProductsLimit caps the product ranking.
const TopProductsLimit = 10

// Service aggregates sales, payment and product data for a report run.
// It is a pure read/compute function: one order query, one grouped product
// query, in-memory accumulation, no writes. The working set is bounded by
// the date-range filter and is held in memory in full.
type Service struct {
	repo     Repository
	resolver catalogs.Resolver
}

// NewService creates a new sales report service.
func NewService(repo Repository, resolver catalogs.Resolver) *Service {
	return &Service{repo: repo, resolver: resolver}
}

// Aggregate runs the report for the given filter.
// An empty selection fails with NO_MATCHING_RECORDS; no partial result is
// produced. Resolver failures propagate unchanged.
func (s *Service) Aggregate(ctx context.Context, scope Scope, f Filter) (*AggregationResult, error) {
	ctx, span := tracer.Start(ctx, "salesreport.aggregate",
		trace.WithAttributes(
			attribute.String("report.start_date", f.StartDate.Format("2006-01-02")),
			attribute.String("report.end_date", f.EndDate.Format("2006-01-02")),
		))
	defer span.End()

	if err := f.Validate(); err != nil {
		return nil, err
	}

	sales, err := s.repo.SearchOrders(ctx, OrderQuery{
		States:     orders.ReportableStates,
		StartDate:  f.StartDate,
		EndDate:    f.EndDate,
		CustomerID: f.CustomerID,
		ProductID:  f.ProductID,
		ChannelID:  f.ChannelID,
	})
	if err != nil {
		return nil, fmt.Errorf("search orders: %w", err)
	}
	if len(sales) == 0 {
		return nil, apperror.NewNoMatchingRecords()
	}
	span.SetAttributes(attribute.Int("report.order_count", len(sales)))

	result := &AggregationResult{
		Orders:                    sales,
		TotalsByCurrency:          make(map[string]CurrencyTotals),
		PaymentsByGatewayCurrency: make(GatewayCurrencySums),
		PaymentsByCurrency:        make(CurrencySums),
		PaymentsByOrderGateway:    make(OrderGatewaySums),
		StartDate:                 f.StartDate,
		EndDate:                   f.EndDate,
		DetailedPayments:          f.DetailedPayments,
	}

	// Partition order totals by currency.
	for _, sale := range sales {
		t := result.TotalsByCurrency[sale.CurrencyCode]
		t.Total = t.Total.Add(sale.TotalAmount)
		t.Tax = t.Tax.Add(sale.TaxAmount)
		t.Untaxed = t.Untaxed.Add(sale.UntaxedAmount)
		t.PaymentAvailable = t.PaymentAvailable.Add(sale.PaymentAvailable())
		result.TotalsByCurrency[sale.CurrencyCode] = t
	}

	// One pass over payment collections fills all three structures.
	// The per-order breakdown is cheap at this data size, so it is always
	// computed regardless of the detail flag.
	var gatewayIDs []id.ID
	seenGateways := make(map[id.ID]struct{})
	for _, sale := range sales {
		for _, payment := range sale.Payments {
			if _, ok := seenGateways[payment.GatewayID]; !ok {
				seenGateways[payment.GatewayID] = struct{}{}
				gatewayIDs = append(gatewayIDs, payment.GatewayID)
			}
			result.PaymentsByOrderGateway.add(sale.ID, payment.GatewayID, payment.Amount)
			result.PaymentsByGatewayCurrency.add(payment.GatewayID, sale.CurrencyCode, payment.Amount)
			result.PaymentsByCurrency.add(sale.CurrencyCode, payment.Amount)
		}
	}

	// Top products are pointless when the filter already pins one product.
	if f.ProductID == nil {
		orderIDs := make([]id.ID, len(sales))
		for i, sale := range sales {
			orderIDs[i] = sale.ID
		}
		top, err := s.repo.TopProducts(ctx, orderIDs, TopProductsLimit)
		if err != nil {
			return nil, fmt.Errorf("top products: %w", err)
		}
		if err := s.resolveTopProducts(ctx, top); err != nil {
			return nil, err
		}
		result.TopProducts = top
	}

	if err := s.resolveReferences(ctx, f, gatewayIDs, result); err != nil {
		return nil, err
	}

	return result, nil
}

// resolveTopProducts attaches product entities to the ranking rows.
func (s *Service) resolveTopProducts(ctx context.Context, top []ProductQuantity) error {
	if len(top) == 0 {
		return nil
	}
	productIDs := make([]id.ID, len(top))
	for i, row := range top {
		productIDs[i] = row.ProductID
	}
	products, err := s.resolver.ProductsByIDs(ctx, productIDs)
	if err != nil {
		return err
	}
	for i := range top {
		top[i].Product = products[i]
	}
	return nil
}

// resolveReferences fills the echoed filter entities and gateway set.
func (s *Service) resolveReferences(ctx context.Context, f Filter, gatewayIDs []id.ID, result *AggregationResult) error {
	var err error
	if f.CustomerID != nil {
		if result.Customer, err = s.resolver.PartyByID(ctx, *f.CustomerID); err != nil {
			return err
		}
	}
	if f.ProductID != nil {
		if result.Product, err = s.resolver.ProductByID(ctx, *f.ProductID); err != nil {
			return err
		}
	}
	if f.ChannelID != nil {
		if result.Channel, err = s.resolver.ChannelByID(ctx, *f.ChannelID); err != nil {
			return err
		}
	}
	if len(gatewayIDs) > 0 {
		if result.Gateways, err = s.resolver.GatewaysByIDs(ctx, gatewayIDs); err != nil {
			return err
		}
	}
	return nil
}
