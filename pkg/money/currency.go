// Package money holds the currency vocabulary shared across the loan
// servicing domain. Monetary amounts travel as shopspring decimals; this
// package guards the currency codes attached to them.
package money

import (
	"fmt"
	"regexp"
)

var currencyCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)

// Currency is an ISO 4217 currency code.
type Currency struct {
	code string
}

// NewCurrency creates a Currency after validating the code is exactly
// three uppercase letters.
func NewCurrency(code string) (Currency, error) {
	if !currencyCodeRe.MatchString(code) {
		return Currency{}, fmt.Errorf("invalid currency code %q: must be exactly 3 uppercase letters", code)
	}
	return Currency{code: code}, nil
}

// MustCurrency creates a Currency and panics on error. Intended for
// package-level variables and tests.
func MustCurrency(code string) Currency {
	c, err := NewCurrency(code)
	if err != nil {
		panic(err)
	}
	return c
}

// Code returns the ISO 4217 currency code.
func (c Currency) Code() string {
	return c.code
}

// String returns the currency code.
func (c Currency) String() string {
	return c.code
}

// IsZero reports whether c is the zero Currency.
func (c Currency) IsZero() bool {
	return c.code == ""
}

// Equal reports whether two currencies carry the same code.
func (c Currency) Equal(other Currency) bool {
	return c.code == other.code
}

// INR is the booking currency of the servicing platform.
var INR = MustCurrency("INR")
