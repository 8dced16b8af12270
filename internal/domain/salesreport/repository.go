package salesreport

import (
	"context"
	"time"

	"salesreports/internal/core/id"
	"salesreports/internal/domain/orders"
)

// OrderQuery is the selection predicate for the order search.
type OrderQuery struct {
	States    []orders.State
	StartDate time.Time
	EndDate   time.Time

	CustomerID *id.ID
	ProductID  *id.ID
	ChannelID  *id.ID
}

// Repository defines the report data access interface.
type Repository interface {
	// SearchOrders returns orders matching the query, sale date descending,
	// with payments and lines hydrated. Dates are inclusive; the product
	// filter matches via order lines.
	SearchOrders(ctx context.Context, query OrderQuery) ([]*orders.Order, error)

	// TopProducts runs a grouped quantity sum over the lines of the given
	// orders, null products excluded, quantity descending, at most limit
	// rows. Product references are left unresolved.
	TopProducts(ctx context.Context, orderIDs []id.ID, limit int) ([]ProductQuantity, error)
}
