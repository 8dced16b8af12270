// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors in aggregation.
type Money = decimal.Decimal

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ZeroMoney returns zero Money value.
func ZeroMoney() Money {
	return decimal.Zero
}

// Quantity is a summable product quantity.
// Order lines carry fractional quantities (e.g. weighed goods), so it shares
// the decimal representation with Money.
type Quantity = decimal.Decimal

// NewQuantityFromInt creates a Quantity from an integer count.
func NewQuantityFromInt(n int64) Quantity {
	return decimal.NewFromInt(n)
}
