// Package core defines the Finanza domain model.
//
// This file handles the form boundary for monetary amounts: every amount
// arrives as text and must parse to a non-negative decimal before it is
// allowed anywhere near the snapshot.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a user-entered amount string to a decimal.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Negative values and unparseable input are rejected with ErrInvalidAmount;
// zero is allowed because budgets use a zero limit for "no budget set".
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}
