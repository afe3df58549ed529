package push

import (
	"github.com/odraude/ledger"
)

// Syncable decides, per record, which remote operation a record needs and
// which lines replace it in the rewritten file. Process returns the remote id
// to assign to the emitted lines; an empty lines slice holds the record back
// (a transfer leg waiting for its pair).
type Syncable interface {
	Process(record ledger.Line, p *Pusher) (id string, lines []ledger.Line, err error)
	// Pending returns the held-back transfer leg, or nil.
	Pending() ledger.Line
}

// Ledger reconciles the transaction log. A record whose category matches the
// transfer marker is paired with the next such record into a single remote
// transfer; a record whose category matches the opening-balance marker opens
// its account instead of posting a transaction.
type Ledger struct {
	options Options
	pending ledger.Line
}

// NewLedger returns the strategy for the transaction log.
func NewLedger(options Options) *Ledger {
	return &Ledger{options: options}
}

func (l *Ledger) Process(record ledger.Line, p *Pusher) (string, []ledger.Line, error) {
	if !record.Pushable() {
		return record.ID(), []ledger.Line{record}, nil
	}
	if record.Category() == l.options.Transfer {
		return l.transfer(record, p)
	}
	if record.Category() == l.options.OpeningBalance {
		id, err := p.openingBalance(record, record.Amount())
		return id, []ledger.Line{record}, err
	}
	id, err := p.postTransaction(record, record.Amount())
	return id, []ledger.Line{record}, err
}

// transfer holds the first leg back and, on the second leg, posts one remote
// transfer whose id both legs share. The pending leg is cleared only on
// success so a failing pair can still be flushed unmodified.
func (l *Ledger) transfer(record ledger.Line, p *Pusher) (string, []ledger.Line, error) {
	if l.pending == nil {
		l.pending = record
		return "", nil, nil
	}
	id, err := p.postTransfer(l.pending, record)
	if err != nil {
		return "", nil, err
	}
	first := l.pending
	l.pending = nil
	return id, []ledger.Line{first, record}, nil
}

func (l *Ledger) Pending() ledger.Line { return l.pending }

// Networth reconciles the snapshot log, a single-account ledger of one
// running investment balance. The first record opens the account with the
// cumulative figure; every later record posts only the delta since the
// previous one.
type Networth struct {
	previous ledger.Money
	seen     bool
}

// NewNetworth returns the strategy for the snapshot log.
func NewNetworth() *Networth {
	return &Networth{}
}

func (n *Networth) Process(record ledger.Line, p *Pusher) (string, []ledger.Line, error) {
	// The running total advances even when this record errors or is
	// skipped, so the next delta stays correct.
	defer func() {
		n.previous, n.seen = record.Investment(), true
	}()

	if !record.Pushable() {
		return record.ID(), []ledger.Line{record}, nil
	}
	if !n.seen {
		id, err := p.openingBalance(record, record.Investment())
		return id, []ledger.Line{record}, err
	}
	id, err := p.postTransaction(record, record.Investment().Sub(n.previous))
	return id, []ledger.Line{record}, err
}

func (n *Networth) Pending() ledger.Line { return nil }
