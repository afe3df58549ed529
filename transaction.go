package ledger

import (
	"fmt"

	"github.com/odraude/ledger/date"
)

var transactionHeaders = []string{
	"Account", "Date", "Category", "Description", "Quantity",
	"Venue", "Amount", "Currency", "Trip", "Id",
}

// TransactionData carries the fields of a ledger transaction.
type TransactionData struct {
	Account     string
	Date        date.Date
	Category    string
	Description string
	Quantity    string
	Venue       string
	Amount      Money
	Trip        string
	ID          string
}

// Transaction is one movement in the ledger file.
type Transaction struct {
	d TransactionData
}

// NewTransaction builds a Transaction from its fields.
func NewTransaction(d TransactionData) *Transaction { return &Transaction{d: d} }

// parseTransaction reads one CSV record in header order.
func parseTransaction(record []string) (Line, error) {
	if err := fieldCount(ModeLedger, record); err != nil {
		return nil, err
	}
	day, err := date.Parse(record[1])
	if err != nil {
		return nil, err
	}
	currency, err := ParseCurrency(record[7])
	if err != nil {
		return nil, err
	}
	amount, err := ParseMoney(record[6], currency)
	if err != nil {
		return nil, fmt.Errorf("transaction on %s: %w", day, err)
	}
	return NewTransaction(TransactionData{
		Account:     record[0],
		Date:        day,
		Category:    record[2],
		Description: record[3],
		Quantity:    record[4],
		Venue:       record[5],
		Amount:      amount,
		Trip:        record[8],
		ID:          record[9],
	}), nil
}

func (t *Transaction) record() []string {
	return []string{
		t.d.Account,
		t.d.Date.String(),
		t.d.Category,
		t.d.Description,
		t.d.Quantity,
		t.d.Venue,
		t.d.Amount.StorageString(),
		t.d.Amount.Currency().Code(),
		t.d.Trip,
		t.d.ID,
	}
}

func (t *Transaction) ID() string          { return t.d.ID }
func (t *Transaction) SetID(id string)     { t.d.ID = id }
func (t *Transaction) Date() date.Date     { return t.d.Date }
func (t *Transaction) Amount() Money       { return t.d.Amount }
func (t *Transaction) Currency() Currency  { return t.d.Amount.Currency() }
func (t *Transaction) Account() string     { return t.d.Account }
func (t *Transaction) Category() string    { return t.d.Category }
func (t *Transaction) Description() string { return t.d.Description }
func (t *Transaction) Quantity() string    { return t.d.Quantity }
func (t *Transaction) Venue() string       { return t.d.Venue }
func (t *Transaction) Trip() string        { return t.d.Trip }

// Investment is always zero for a ledger transaction.
func (t *Transaction) Investment() Money {
	return NewMoney(t.d.Amount.Currency(), 0)
}

func (t *Transaction) Pushable() bool { return pushable(t.d.ID, t.d.Date) }

func (t *Transaction) Converted(to Currency, rates *Exchange) (Line, error) {
	amount, err := t.d.Amount.Convert(to, rates)
	if err != nil {
		return nil, err
	}
	d := t.d
	d.Amount = amount
	return NewTransaction(d), nil
}
