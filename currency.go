package ledger

import (
	"fmt"

	"github.com/Rhymond/go-money"
)

// Currency identifies an ISO 4217 currency.
//
// The zero value is the "unknown" currency; records always carry a parsed,
// valid currency.
type Currency struct {
	code string
}

// ParseCurrency validates an ISO 4217 code and returns the Currency.
func ParseCurrency(code string) (Currency, error) {
	if money.GetCurrency(code) == nil {
		return Currency{}, fmt.Errorf("the currency code %q does not exist", code)
	}
	return Currency{code: code}, nil
}

// MustParseCurrency is like ParseCurrency but panics on error. Intended for tests.
func MustParseCurrency(code string) Currency {
	c, err := ParseCurrency(code)
	if err != nil {
		panic(err)
	}
	return c
}

// Code returns the ISO 4217 code.
func (c Currency) Code() string { return c.code }

// IsZero reports whether the currency is unset.
func (c Currency) IsZero() bool { return c.code == "" }

func (c Currency) String() string { return c.code }

// Decimals returns the number of minor-unit digits of the currency.
func (c Currency) Decimals() int {
	cur := money.GetCurrency(c.code)
	if cur == nil {
		return 2
	}
	return cur.Fraction
}

// Symbol returns the currency symbol, falling back to the code when none exists.
func (c Currency) Symbol() string {
	cur := money.GetCurrency(c.code)
	if cur == nil || cur.Grapheme == "" {
		return c.code
	}
	return cur.Grapheme
}
