// Package sales_repo provides the PostgreSQL implementation of the sales
// report data source. All queries are read-only against the order tables
// owned by the host suite.
package sales_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"salesreports/internal/core/id"
	"salesreports/internal/core/types"
	"salesreports/internal/domain/orders"
	"salesreports/internal/domain/salesreport"
	"salesreports/internal/infrastructure/storage/postgres"
)

// OrderRepo implements salesreport.Repository.
type OrderRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewOrderRepo creates a new order repository.
func NewOrderRepo(txm *postgres.TxManager) *OrderRepo {
	return &OrderRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var orderColumns = []string{
	"id", "number", "party_id", "channel_id", "currency_code", "sale_date",
	"state", "total_amount", "tax_amount", "untaxed_amount", "amount_paid",
}

// buildOrderQuery translates the selection predicate into SQL.
// Dates are inclusive on both ends; the product filter matches through
// order lines.
func (r *OrderRepo) buildOrderQuery(q salesreport.OrderQuery) (string, []any, error) {
	states := make([]string, len(q.States))
	for i, s := range q.States {
		states[i] = string(s)
	}

	sb := r.builder.
		Select(orderColumns...).
		From("sale_orders").
		Where(squirrel.Eq{"state": states}).
		Where(squirrel.GtOrEq{"sale_date": q.StartDate}).
		Where(squirrel.LtOrEq{"sale_date": q.EndDate})

	if q.CustomerID != nil {
		sb = sb.Where(squirrel.Eq{"party_id": *q.CustomerID})
	}
	if q.ChannelID != nil {
		sb = sb.Where(squirrel.Eq{"channel_id": *q.ChannelID})
	}
	if q.ProductID != nil {
		sb = sb.Where(
			"EXISTS (SELECT 1 FROM sale_order_lines l WHERE l.order_id = sale_orders.id AND l.product_id = ?)",
			*q.ProductID,
		)
	}

	// Presentation order; aggregation does not depend on it.
	return sb.OrderBy("sale_date DESC", "number DESC").ToSql()
}

// SearchOrders returns matching orders with payments and lines hydrated.
func (r *OrderRepo) SearchOrders(ctx context.Context, query salesreport.OrderQuery) ([]*orders.Order, error) {
	sql, args, err := r.buildOrderQuery(query)
	if err != nil {
		return nil, fmt.Errorf("build order query: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)

	var result []*orders.Order
	if err := pgxscan.Select(ctx, querier, &result, sql, args...); err != nil {
		return nil, fmt.Errorf("search orders: %w", err)
	}
	if len(result) == 0 {
		return result, nil
	}

	orderIDs := make([]id.ID, len(result))
	byID := make(map[id.ID]*orders.Order, len(result))
	for i, o := range result {
		orderIDs[i] = o.ID
		byID[o.ID] = o
	}

	if err := r.loadPayments(ctx, orderIDs, byID); err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, orderIDs, byID); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *OrderRepo) loadPayments(ctx context.Context, orderIDs []id.ID, byID map[id.ID]*orders.Order) error {
	sql := `
		SELECT id, order_id, gateway_id, amount
		FROM sale_payments
		WHERE order_id = ANY($1)
		ORDER BY id
	`
	var payments []orders.Payment
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &payments, sql, orderIDs); err != nil {
		return fmt.Errorf("load payments: %w", err)
	}
	for _, p := range payments {
		if o, ok := byID[p.OrderID]; ok {
			o.Payments = append(o.Payments, p)
		}
	}
	return nil
}

func (r *OrderRepo) loadLines(ctx context.Context, orderIDs []id.ID, byID map[id.ID]*orders.Order) error {
	sql := `
		SELECT id, order_id, product_id, quantity
		FROM sale_order_lines
		WHERE order_id = ANY($1)
		ORDER BY id
	`
	var lines []orders.Line
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &lines, sql, orderIDs); err != nil {
		return fmt.Errorf("load lines: %w", err)
	}
	for _, l := range lines {
		if o, ok := byID[l.OrderID]; ok {
			o.Lines = append(o.Lines, l)
		}
	}
	return nil
}

// topProductRow is the raw grouped-sum row.
type topProductRow struct {
	ProductID id.ID          `db:"product_id"`
	Quantity  types.Quantity `db:"quantity"`
}

// TopProducts runs the grouped quantity sum over the lines of the given
// orders. Lines without a product are excluded. Ties are broken by the
// earliest line id, which is time-ordered, so the ranking is reproducible.
func (r *OrderRepo) TopProducts(ctx context.Context, orderIDs []id.ID, limit int) ([]salesreport.ProductQuantity, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}

	sql := `
		SELECT
			l.product_id,
			SUM(l.quantity) AS quantity
		FROM sale_order_lines l
		WHERE l.order_id = ANY($1) AND l.product_id IS NOT NULL
		GROUP BY l.product_id
		ORDER BY quantity DESC, MIN(l.id)
		LIMIT $2
	`

	var rows []topProductRow
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, orderIDs, limit); err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}

	result := make([]salesreport.ProductQuantity, len(rows))
	for i, row := range rows {
		result[i] = salesreport.ProductQuantity{
			ProductID: row.ProductID,
			Quantity:  row.Quantity,
		}
	}
	return result, nil
}

// Ensure interface compliance
var _ salesreport.Repository = (*OrderRepo)(nil)
