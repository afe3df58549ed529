package ledger

import (
	"fmt"

	"github.com/odraude/ledger/date"
)

// Mode selects which of the two datasets a file holds.
type Mode int

const (
	// ModeLedger is the transaction log.
	ModeLedger Mode = iota
	// ModeNetworth is the net-worth snapshot log.
	ModeNetworth
)

func (m Mode) String() string {
	if m == ModeNetworth {
		return "networth"
	}
	return "ledger"
}

// Headers returns the CSV header row of the mode's dataset.
func (m Mode) Headers() []string {
	if m == ModeNetworth {
		return entryHeaders
	}
	return transactionHeaders
}

// Line is one record of a dataset: a Transaction in the ledger file or an
// Entry in the networth file. There is never a third kind.
//
// A non-empty ID means the record has already been reconciled with the remote
// accounting service; such a record is never submitted again.
type Line interface {
	ID() string
	SetID(id string)
	Date() date.Date
	Amount() Money
	Currency() Currency
	Account() string
	Category() string
	Description() string
	Quantity() string
	Venue() string
	Trip() string
	// Investment is the running invested total; zero for ledger transactions.
	Investment() Money
	// Pushable reports whether the record is eligible for reconciliation:
	// no id yet and not dated in the future.
	Pushable() bool
	// Converted returns a copy re-denominated in the given currency.
	Converted(to Currency, rates *Exchange) (Line, error)

	record() []string
}

// ParseRecord parses one record's fields, ordered as in the mode's header.
func ParseRecord(m Mode, record []string) (Line, error) {
	if err := fieldCount(m, record); err != nil {
		return nil, err
	}
	return buildLine(m, record)
}

// buildLine parses one CSV record into the mode's Line kind.
func buildLine(m Mode, record []string) (Line, error) {
	if m == ModeNetworth {
		return parseEntry(record)
	}
	return parseTransaction(record)
}

func fieldCount(m Mode, record []string) error {
	if len(record) != len(m.Headers()) {
		return fmt.Errorf("%s record has %d fields, want %d", m, len(record), len(m.Headers()))
	}
	return nil
}

// Pushable is the shared eligibility rule for both kinds.
func pushable(id string, d date.Date) bool {
	return id == "" && !d.Future()
}
