// Package orders defines the sales order entities consumed by the reporting
// service. The order store is owned by the host suite; everything here is
// read-only from this service's point of view.
package orders

import (
	"time"

	"salesreports/internal/core/id"
	"salesreports/internal/core/types"
)

// State is the sales order lifecycle state.
type State string

const (
	StateDraft      State = "draft"
	StateQuotation  State = "quotation"
	StateConfirmed  State = "confirmed"
	StateProcessing State = "processing"
	StateDone       State = "done"
	StateCancelled  State = "cancelled"
)

// ReportableStates are the lifecycle states included in sales reports.
var ReportableStates = []State{StateConfirmed, StateProcessing, StateDone}

// Reportable reports whether orders in this state appear in sales reports.
func (s State) Reportable() bool {
	for _, rs := range ReportableStates {
		if s == rs {
			return true
		}
	}
	return false
}

// Order is a customer sales order with monetary totals and nested
// lines and payments.
type Order struct {
	ID           id.ID     `db:"id"`
	Number       string    `db:"number"`
	PartyID      id.ID     `db:"party_id"`
	ChannelID    id.ID     `db:"channel_id"`
	CurrencyCode string    `db:"currency_code"`
	SaleDate     time.Time `db:"sale_date"`
	State        State     `db:"state"`

	TotalAmount   types.Money `db:"total_amount"`
	TaxAmount     types.Money `db:"tax_amount"`
	UntaxedAmount types.Money `db:"untaxed_amount"`
	AmountPaid    types.Money `db:"amount_paid"`

	Lines    []Line    `db:"-"`
	Payments []Payment `db:"-"`
}

// PaymentAvailable is the remaining payable amount on the order.
func (o *Order) PaymentAvailable() types.Money {
	return o.TotalAmount.Sub(o.AmountPaid)
}

// Line is a single order position. ProductID is nullable: service charges
// and free-text lines carry no product reference.
type Line struct {
	ID        id.ID          `db:"id"`
	OrderID   id.ID          `db:"order_id"`
	ProductID *id.ID         `db:"product_id"`
	Quantity  types.Quantity `db:"quantity"`
}

// Payment is a captured payment against an order. Its currency is inherited
// from the parent order.
type Payment struct {
	ID        id.ID       `db:"id"`
	OrderID   id.ID       `db:"order_id"`
	GatewayID id.ID       `db:"gateway_id"`
	Amount    types.Money `db:"amount"`
}
