package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value in a given currency.
//
// The value is held in major units with the exact precision of the currency,
// so arithmetic never accumulates rounding noise.
type Money struct {
	value decimal.Decimal
	cur   Currency
}

// NewMoney builds a Money from an amount of minor units (cents for most currencies).
func NewMoney(cur Currency, minor int64) Money {
	return Money{value: decimal.New(minor, -int32(cur.Decimals())), cur: cur}
}

// ParseMoney reads a stored amount such as "+1234.00" or "-0.50" in the given
// currency. The value is rounded to the currency's minor unit.
func ParseMoney(s string, cur Currency) (Money, error) {
	v, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Money{value: v.Round(int32(cur.Decimals())), cur: cur}, nil
}

// Currency returns the money's currency.
func (m Money) Currency() Currency { return m.cur }

// Number returns the signed amount in major units.
func (m Money) Number() decimal.Decimal { return m.value }

func (m Money) IsZero() bool     { return m.value.IsZero() }
func (m Money) IsPositive() bool { return m.value.IsPositive() }
func (m Money) IsNegative() bool { return m.value.IsNegative() }

func (m Money) Neg() Money { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Abs() Money { return Money{value: m.value.Abs(), cur: m.cur} }

func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// Equal reports whether both value and currency match.
func (m Money) Equal(n Money) bool { return m.value.Equal(n.value) && m.cur == n.cur }

// cur makes the "" currency totally weak.
func cur(a, b Money) Currency {
	if a.cur.IsZero() {
		return b.cur
	}
	if b.cur.IsZero() {
		return a.cur
	}
	if a.cur != b.cur {
		panic("currency mismatch " + a.cur.Code() + " != " + b.cur.Code())
	}
	return a.cur
}

// StorageString returns the form persisted in the CSV file: an explicit sign
// for non-zero values and the currency's minor-unit precision, no grouping.
func (m Money) StorageString() string {
	fixed := m.value.Abs().StringFixed(int32(m.cur.Decimals()))
	return m.sign() + fixed
}

// String returns the display form: sign, thousands grouping and currency symbol.
func (m Money) String() string {
	fixed := m.value.Abs().StringFixed(int32(m.cur.Decimals()))
	major, minor, found := strings.Cut(fixed, ".")
	if found {
		minor = "." + minor
	}
	return m.sign() + group(major) + minor + m.cur.Symbol()
}

func (m Money) sign() string {
	switch {
	case m.value.IsPositive():
		return "+"
	case m.value.IsNegative():
		return "-"
	default:
		return ""
	}
}

// group inserts a thousands separator every three digits.
func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Convert re-denominates the money into the given currency using the exchange
// rate table. A zero target currency, or one equal to the current currency,
// leaves the value untouched.
func (m Money) Convert(to Currency, rates *Exchange) (Money, error) {
	if to.IsZero() || to == m.cur {
		return m, nil
	}
	rate, err := rates.Rate(m.cur, to)
	if err != nil {
		return Money{}, err
	}
	v := m.value.Mul(decimal.NewFromFloat(rate)).Round(int32(to.Decimals()))
	return Money{value: v, cur: to}, nil
}
