// Package convert computes currency conversions against a fetched rate table.
package convert

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/r-ledesma/cambio/internal/models"
)

var (
	// ErrUnsupportedCurrency indicates a currency code the rate table
	// cannot resolve.
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	// ErrInvalidAmount indicates a non-numeric or non-positive amount.
	ErrInvalidAmount = errors.New("invalid amount")
)

// ParseAmount parses user input into a positive amount.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty input", ErrInvalidAmount)
	}
	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s)
	}
	if err := validateAmount(amount); err != nil {
		return 0, err
	}
	return amount, nil
}

func validateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("%w: not a finite number", ErrInvalidAmount)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}
	return nil
}

// Convert converts amount from one currency to another using the given rate
// table. When the table is keyed to the source currency the target rate
// applies directly; for a table keyed to another base the cross rate
// rate[to]/rate[from] is used. Converting a currency to itself is exact and
// needs no table lookup.
func Convert(amount float64, from, to string, table *models.RateTable) (result, rate float64, err error) {
	if err := validateAmount(amount); err != nil {
		return 0, 0, err
	}

	if from == to {
		return amount, 1, nil
	}

	toRate, ok := table.Rate(to)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s", ErrUnsupportedCurrency, to)
	}

	if table.Base == from {
		return amount * toRate, toRate, nil
	}

	fromRate, ok := table.Rate(from)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s", ErrUnsupportedCurrency, from)
	}
	if fromRate == 0 {
		return 0, 0, fmt.Errorf("%w: %s has a zero rate", ErrUnsupportedCurrency, from)
	}

	rate = toRate / fromRate
	return amount * rate, rate, nil
}

// NormalizeCode uppercases and trims a user-supplied currency code. Codes are
// not validated locally; the API decides what it supports.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
