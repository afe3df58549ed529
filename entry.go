package ledger

import (
	"fmt"

	"github.com/odraude/ledger/date"
)

// NetworthAccount is the implicit account every networth entry belongs to.
const NetworthAccount = "Networth"

var entryHeaders = []string{"Date", "Invested", "Investment", "Amount", "Currency", "Id"}

// EntryData carries the fields of a networth snapshot entry.
//
// Investment is a running total, not a per-period movement; reconciliation
// posts only the delta between consecutive entries.
type EntryData struct {
	Date       date.Date
	Invested   Money
	Investment Money
	Amount     Money
	ID         string
}

// Entry is one snapshot in the networth file.
type Entry struct {
	d EntryData
}

// NewEntry builds an Entry from its fields.
func NewEntry(d EntryData) *Entry { return &Entry{d: d} }

// parseEntry reads one CSV record in header order.
func parseEntry(record []string) (Line, error) {
	if err := fieldCount(ModeNetworth, record); err != nil {
		return nil, err
	}
	day, err := date.Parse(record[0])
	if err != nil {
		return nil, err
	}
	currency, err := ParseCurrency(record[4])
	if err != nil {
		return nil, err
	}
	d := EntryData{Date: day, ID: record[5]}
	for _, f := range []struct {
		dst *Money
		val string
	}{
		{&d.Invested, record[1]},
		{&d.Investment, record[2]},
		{&d.Amount, record[3]},
	} {
		m, err := ParseMoney(f.val, currency)
		if err != nil {
			return nil, fmt.Errorf("entry on %s: %w", day, err)
		}
		*f.dst = m
	}
	return NewEntry(d), nil
}

func (e *Entry) record() []string {
	return []string{
		e.d.Date.String(),
		e.d.Invested.StorageString(),
		e.d.Investment.StorageString(),
		e.d.Amount.StorageString(),
		e.d.Amount.Currency().Code(),
		e.d.ID,
	}
}

func (e *Entry) ID() string          { return e.d.ID }
func (e *Entry) SetID(id string)     { e.d.ID = id }
func (e *Entry) Date() date.Date     { return e.d.Date }
func (e *Entry) Amount() Money       { return e.d.Amount }
func (e *Entry) Currency() Currency  { return e.d.Amount.Currency() }
func (e *Entry) Account() string     { return NetworthAccount }
func (e *Entry) Category() string    { return "" }
func (e *Entry) Description() string { return "" }
func (e *Entry) Quantity() string    { return "" }
func (e *Entry) Venue() string       { return "" }
func (e *Entry) Trip() string        { return "" }
func (e *Entry) Investment() Money   { return e.d.Investment }

// Invested is the cumulative amount put in, as recorded in the file.
func (e *Entry) Invested() Money { return e.d.Invested }

func (e *Entry) Pushable() bool { return pushable(e.d.ID, e.d.Date) }

func (e *Entry) Converted(to Currency, rates *Exchange) (Line, error) {
	d := EntryData{Date: e.d.Date, ID: e.d.ID}
	for _, f := range []struct {
		dst *Money
		src Money
	}{
		{&d.Invested, e.d.Invested},
		{&d.Investment, e.d.Investment},
		{&d.Amount, e.d.Amount},
	} {
		m, err := f.src.Convert(to, rates)
		if err != nil {
			return nil, err
		}
		*f.dst = m
	}
	return NewEntry(d), nil
}
