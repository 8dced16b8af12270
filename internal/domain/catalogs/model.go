// Package catalogs defines the reference entities a sales report links to.
// The reporting service only needs identity and display attributes; the full
// catalogs live in the host suite.
package catalogs

import (
	"salesreports/internal/core/id"
)

// Party is a customer reference.
type Party struct {
	ID   id.ID  `db:"id"`
	Code string `db:"code"`
	Name string `db:"name"`
}

// Product is a sellable product reference.
type Product struct {
	ID   id.ID  `db:"id"`
	Code string `db:"code"`
	Name string `db:"name"`
}

// Channel is the sales channel an order originated from (e.g. storefront).
type Channel struct {
	ID   id.ID  `db:"id"`
	Code string `db:"code"`
	Name string `db:"name"`
}

// Gateway is the payment processor a payment was captured through.
type Gateway struct {
	ID   id.ID  `db:"id"`
	Code string `db:"code"`
	Name string `db:"name"`
}

// Currency is a monetary unit, keyed by ISO 4217 code in order data.
type Currency struct {
	ID            id.ID  `db:"id"`
	Code          string `db:"code"`
	Symbol        string `db:"symbol"`
	DecimalPlaces int    `db:"decimal_places"`
}
